package domain

// Outbound event names on the room/game control plane. The transport wraps
// each payload in an envelope carrying one of these names.
const (
	EventConnected       = "connected"
	EventRoomCreated     = "room-created"
	EventRoomJoined      = "room-joined"
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventRoomError       = "room-error"
	EventGameStarted     = "game-started"
	EventNewQuestion     = "new-question"
	EventQuestionResults = "question-results"
	EventGameEnded       = "game-ended"
)

// RoomCreatedPayload answers a create-room request on the creating connection.
type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
	Room   Room   `json:"room"`
}

// RoomJoinedPayload answers a join-room request on the joining connection.
type RoomJoinedPayload struct {
	RoomID string `json:"roomId"`
	Room   Room   `json:"room"`
}

// UserJoinedPayload notifies a room that a participant joined.
type UserJoinedPayload struct {
	UserName string `json:"userName"`
	Room     Room   `json:"room"`
}

// UserLeftPayload notifies the remaining participants that one left.
type UserLeftPayload struct {
	ConnID string `json:"socketId"`
	Room   Room   `json:"room"`
}

// RoomErrorPayload reports a room/game error to the originating connection only.
type RoomErrorPayload struct {
	Message string `json:"message"`
}

// GameStartedPayload announces a new game to the room.
type GameStartedPayload struct {
	RoomID         string `json:"roomId"`
	TotalQuestions int    `json:"totalQuestions"`
}

// NewQuestionPayload presents the current question. The correct index is
// deliberately absent.
type NewQuestionPayload struct {
	QuestionIndex int      `json:"questionIndex"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	TimeLimitMs   int64    `json:"timeLimit"`
}

// QuestionResultsPayload reveals the answer, per-player outcomes and the
// running leaderboard after a question settles.
type QuestionResultsPayload struct {
	QuestionIndex int                `json:"questionIndex"`
	CorrectAnswer int                `json:"correctAnswer"`
	Results       []PlayerResult     `json:"results"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}

// GameEndedPayload carries the final standings. Winner is the top entry.
type GameEndedPayload struct {
	FinalResults []LeaderboardEntry `json:"finalResults"`
	Winner       LeaderboardEntry   `json:"winner"`
}
