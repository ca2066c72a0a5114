package domain

import "time"

// Participant is a connected user inside a room, identified by the opaque
// id of their live connection. Created on join, removed on leave or
// disconnect, never persisted.
type Participant struct {
	ConnID      string `json:"id"`
	DisplayName string `json:"name"`
	IsCreator   bool   `json:"isCreator"`
}

// Room is a named lobby of participants awaiting or running a game.
// Participant order is insertion order; it drives roster display and
// scoring tie-breaks, so it must stay stable.
type Room struct {
	ID           string        `json:"id"`
	Creator      string        `json:"creator"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Question is a single quiz item. Correct is an index into Choices.
type Question struct {
	Prompt  string   `json:"question"`
	Choices []string `json:"options"`
	Correct int      `json:"correctAnswer"`
}

// QuestionSet is a fixed ordered list of questions played start to finish.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Outcome tags how a player fared on a single question.
type Outcome string

const (
	OutcomeFirstCorrect Outcome = "first-correct"
	OutcomeCorrect      Outcome = "correct"
	OutcomeWrong        Outcome = "wrong"
	OutcomeNoAnswer     Outcome = "no-answer"
)

// PlayerResult is the per-player outcome record for one settled question.
// Answer is nil when the player never answered.
type PlayerResult struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Answer     *int    `json:"answer"`
	Points     int     `json:"pointsEarned"`
	TotalScore int     `json:"totalScore"`
	Status     Outcome `json:"status"`
}

// LeaderboardEntry is one row of a score-descending leaderboard.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// User is a registered account for the score-history API.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Score is one persisted game result for a user.
type Score struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	Score              int       `json:"score"`
	QuestionsAttempted int       `json:"questionsAttempted"`
	GameDate           time.Time `json:"gameDate"`
}

// BestScore is one row of the persisted all-time leaderboard.
type BestScore struct {
	Email      string    `json:"email"`
	BestScore  int       `json:"bestScore"`
	LastPlayed time.Time `json:"lastPlayed"`
}
