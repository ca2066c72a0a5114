package app

import (
	"context"
	"log"

	"github.com/GhadeBhavesh/QZone/internal/domain"
)

// Broadcaster is the capability the core uses to notify participants. The
// transport layer implements it; the core never touches a connection.
type Broadcaster interface {
	ToRoom(roomID, event string, payload any)
	ToConn(connID, event string, payload any)
}

// GameStore abstracts how live game sessions are stored (in-memory, Redis
// liveness-marked, etc). Put reports false when the room already has a live
// session.
type GameStore interface {
	Put(roomID string, game *GameSession) bool
	Get(roomID string) (*GameSession, bool)
	Delete(roomID string)
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// GameService is the top-level dispatcher: inbound participant events route
// here and mutate the room registry or the addressed game session. Errors go
// back to the originating connection only, as room-error events.
type GameService struct {
	rooms   *RoomRegistry
	games   GameStore
	sets    QuestionRepository
	gateway Broadcaster
	timing  Timing
	setID   string
}

func NewGameService(rooms *RoomRegistry, games GameStore, sets QuestionRepository, gateway Broadcaster, timing Timing, setID string) *GameService {
	return &GameService{
		rooms:   rooms,
		games:   games,
		sets:    sets,
		gateway: gateway,
		timing:  timing,
		setID:   setID,
	}
}

// CreateRoom creates (or idempotently fetches) a room, adds the caller, and
// confirms on the creating connection.
func (s *GameService) CreateRoom(connID, roomID, displayName string) {
	room, err := s.rooms.CreateOrGet(roomID, connID, displayName)
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}
	s.gateway.ToConn(connID, domain.EventRoomCreated, domain.RoomCreatedPayload{
		RoomID: roomID,
		Room:   room,
	})
	log.Printf("room %s created by %s", roomID, displayName)
}

// JoinRoom adds the caller to an existing room. The room hears user-joined;
// the joining connection hears room-joined.
func (s *GameService) JoinRoom(connID, roomID, displayName string) {
	room, err := s.rooms.Join(roomID, connID, displayName)
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}
	s.gateway.ToRoom(roomID, domain.EventUserJoined, domain.UserJoinedPayload{
		UserName: displayName,
		Room:     room,
	})
	s.gateway.ToConn(connID, domain.EventRoomJoined, domain.RoomJoinedPayload{
		RoomID: roomID,
		Room:   room,
	})
	log.Printf("%s joined room %s", displayName, roomID)
}

// LeaveRoom removes the caller from the room, notifying the remaining
// participants. No-op when the room or participant is absent.
func (s *GameService) LeaveRoom(connID, roomID string) {
	room, removed := s.rooms.Leave(roomID, connID)
	if !removed {
		return
	}
	s.gateway.ToRoom(roomID, domain.EventUserLeft, domain.UserLeftPayload{
		ConnID: connID,
		Room:   room,
	})
}

// Disconnect removes the connection from every room it occupies. A running
// game keeps the player's scoring slot; they simply stop answering.
func (s *GameService) Disconnect(connID string) {
	for _, room := range s.rooms.RemoveEverywhere(connID) {
		s.gateway.ToRoom(room.ID, domain.EventUserLeft, domain.UserLeftPayload{
			ConnID: connID,
			Room:   room,
		})
	}
}

// StartGame snapshots the roster into a new session and kicks off the
// question sequence. Only the room creator may start, with 2-10 players. A
// start while a session is already live for the room is dropped.
func (s *GameService) StartGame(ctx context.Context, connID, roomID string) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		s.sendError(connID, domain.ErrRoomNotFound.Error())
		return
	}

	var caller *domain.Participant
	for i := range room.Participants {
		if room.Participants[i].ConnID == connID {
			caller = &room.Participants[i]
			break
		}
	}
	if caller == nil || !caller.IsCreator {
		s.sendError(connID, domain.ErrNotAuthorized.Error())
		return
	}
	if n := len(room.Participants); n < MinGamePlayers || n > MaxRoomSize {
		s.sendError(connID, domain.ErrInvalidPlayerCount.Error())
		return
	}

	set, err := s.sets.GetQuestionSet(ctx, s.setID)
	if err != nil {
		log.Printf("load question set %s: %v", s.setID, err)
		s.sendError(connID, domain.ErrQuestionSetNotFound.Error())
		return
	}

	game := NewGameSession(roomID, room.Participants, set.Questions, s.gateway, s.timing, s.games.Delete)
	if !s.games.Put(roomID, game) {
		return
	}
	log.Printf("game started in room %s", roomID)
	game.Start()
}

// SubmitAnswer forwards an answer to the room's live session. Stale or
// misaddressed submissions are dropped without an error, per the control
// plane's out-of-order-event policy.
func (s *GameService) SubmitAnswer(connID, roomID string, choice int) {
	game, ok := s.games.Get(roomID)
	if !ok {
		return
	}
	game.SubmitAnswer(connID, choice)
}

func (s *GameService) sendError(connID, message string) {
	s.gateway.ToConn(connID, domain.EventRoomError, domain.RoomErrorPayload{Message: message})
}
