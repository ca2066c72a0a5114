package app

import (
	"sort"
	"sync"
	"time"

	"github.com/GhadeBhavesh/QZone/internal/domain"
)

// Timing groups the delays that pace a game. All three are configuration,
// loaded from the game section of the config file.
type Timing struct {
	AnnounceDelay time.Duration
	QuestionTime  time.Duration
	RevealDelay   time.Duration
}

// DefaultTiming matches the pacing of the production deployment: 3s game
// announcement, 10s per question, 5s result reveal.
func DefaultTiming() Timing {
	return Timing{
		AnnounceDelay: 3 * time.Second,
		QuestionTime:  10 * time.Second,
		RevealDelay:   5 * time.Second,
	}
}

const (
	pointsFirstCorrect = 10
	pointsCorrect      = 5
	pointsWrong        = -5
)

// playerState is the per-player scoring slot, snapshotted from the roster at
// game start. Disconnected players keep their slot and score no-answer for
// the rest of the game.
type playerState struct {
	connID     string
	name       string
	score      int
	answered   bool
	answer     int
	answeredAt time.Time
}

// GameSession runs the question lifecycle for one room: announce the game,
// then for each question broadcast it, collect answers until everyone has
// answered or the deadline fires, settle, reveal, advance. All mutation goes
// through one mutex; different rooms share nothing.
type GameSession struct {
	roomID    string
	questions []domain.Question
	gateway   Broadcaster
	timing    Timing
	clock     func() time.Time
	onEnd     func(roomID string)

	mu      sync.Mutex
	players []*playerState
	current int
	active  bool
	settled bool
	timer   *time.Timer
}

// NewGameSession snapshots the roster into fresh scoring slots. The session
// does not admit participants after this point.
func NewGameSession(roomID string, roster []domain.Participant, questions []domain.Question, gateway Broadcaster, timing Timing, onEnd func(roomID string)) *GameSession {
	return NewGameSessionWithClock(roomID, roster, questions, gateway, timing, onEnd, time.Now)
}

// NewGameSessionWithClock is test-only for deterministic answer timestamps.
func NewGameSessionWithClock(roomID string, roster []domain.Participant, questions []domain.Question, gateway Broadcaster, timing Timing, onEnd func(roomID string), now func() time.Time) *GameSession {
	players := make([]*playerState, 0, len(roster))
	for _, p := range roster {
		players = append(players, &playerState{connID: p.ConnID, name: p.DisplayName})
	}
	return &GameSession{
		roomID:    roomID,
		questions: questions,
		gateway:   gateway,
		timing:    timing,
		clock:     now,
		onEnd:     onEnd,
		players:   players,
		active:    true,
		// Answers are only accepted between new-question and settlement;
		// the latch starts closed so nothing lands before question 0.
		settled: true,
	}
}

// Start announces the game to the room and schedules the first question.
func (g *GameSession) Start() {
	g.mu.Lock()
	g.gateway.ToRoom(g.roomID, domain.EventGameStarted, domain.GameStartedPayload{
		RoomID:         g.roomID,
		TotalQuestions: len(g.questions),
	})
	g.mu.Unlock()
	time.AfterFunc(g.timing.AnnounceDelay, g.nextQuestion)
}

// SubmitAnswer records a choice for the current question. It is a silent
// no-op when the game is inactive, the question is already settled, the
// connection holds no scoring slot, or the player already answered. When the
// submission completes the set of answers, the deadline timer is stopped and
// the question settles immediately.
func (g *GameSession) SubmitAnswer(connID string, choice int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active || g.settled {
		return
	}
	player := g.playerLocked(connID)
	if player == nil || player.answered {
		return
	}
	player.answered = true
	player.answer = choice
	player.answeredAt = g.clock()

	for _, p := range g.players {
		if !p.answered {
			return
		}
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	g.settleLocked(g.current)
}

// Active reports whether the session is still running questions.
func (g *GameSession) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *GameSession) nextQuestion() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return
	}
	if g.current >= len(g.questions) {
		g.endLocked()
		return
	}

	for _, p := range g.players {
		p.answered = false
		p.answer = 0
		p.answeredAt = time.Time{}
	}
	g.settled = false

	idx := g.current
	question := g.questions[idx]
	g.gateway.ToRoom(g.roomID, domain.EventNewQuestion, domain.NewQuestionPayload{
		QuestionIndex: idx,
		Question:      question.Prompt,
		Options:       question.Choices,
		TimeLimitMs:   g.timing.QuestionTime.Milliseconds(),
	})
	g.timer = time.AfterFunc(g.timing.QuestionTime, func() { g.deadline(idx) })
}

func (g *GameSession) deadline(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settleLocked(idx)
}

// settleLocked closes question idx exactly once. The latch plus the index
// check make the race between the deadline timer and the last-answer path
// harmless: whichever arrives second finds the question settled or the
// session already advanced.
func (g *GameSession) settleLocked(idx int) {
	if !g.active || g.settled || idx != g.current {
		return
	}
	g.settled = true

	question := g.questions[idx]
	results := g.scoreLocked(question.Correct)
	g.gateway.ToRoom(g.roomID, domain.EventQuestionResults, domain.QuestionResultsPayload{
		QuestionIndex: idx,
		CorrectAnswer: question.Correct,
		Results:       results,
		Leaderboard:   g.leaderboardLocked(),
	})
	g.current++
	time.AfterFunc(g.timing.RevealDelay, g.nextQuestion)
}

// scoreLocked applies the speed-weighted scoring rule and mutates cumulative
// scores. Correct answers are ranked by timestamp ascending; the stable sort
// breaks equal timestamps by roster order.
func (g *GameSession) scoreLocked(correct int) []domain.PlayerResult {
	ranked := make([]*playerState, 0, len(g.players))
	for _, p := range g.players {
		if p.answered && p.answer == correct {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].answeredAt.Before(ranked[j].answeredAt)
	})
	rank := make(map[string]int, len(ranked))
	for i, p := range ranked {
		rank[p.connID] = i
	}

	results := make([]domain.PlayerResult, 0, len(g.players))
	for _, p := range g.players {
		points := 0
		status := domain.OutcomeNoAnswer
		var answer *int
		switch {
		case p.answered && p.answer == correct:
			if rank[p.connID] == 0 {
				points = pointsFirstCorrect
				status = domain.OutcomeFirstCorrect
			} else {
				points = pointsCorrect
				status = domain.OutcomeCorrect
			}
		case p.answered:
			points = pointsWrong
			status = domain.OutcomeWrong
		}
		if p.answered {
			a := p.answer
			answer = &a
		}
		p.score += points
		results = append(results, domain.PlayerResult{
			PlayerID:   p.connID,
			PlayerName: p.name,
			Answer:     answer,
			Points:     points,
			TotalScore: p.score,
			Status:     status,
		})
	}
	return results
}

// leaderboardLocked is a stable descending sort on cumulative score, so tied
// players appear in roster order.
func (g *GameSession) leaderboardLocked() []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(g.players))
	for _, p := range g.players {
		entries = append(entries, domain.LeaderboardEntry{Name: p.name, Score: p.score})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

func (g *GameSession) endLocked() {
	g.active = false
	if g.timer != nil {
		g.timer.Stop()
	}
	final := g.leaderboardLocked()
	payload := domain.GameEndedPayload{FinalResults: final}
	if len(final) > 0 {
		payload.Winner = final[0]
	}
	g.gateway.ToRoom(g.roomID, domain.EventGameEnded, payload)
	if g.onEnd != nil {
		g.onEnd(g.roomID)
	}
}

func (g *GameSession) playerLocked(connID string) *playerState {
	for _, p := range g.players {
		if p.connID == connID {
			return p
		}
	}
	return nil
}
