package app

import (
	"sync"
	"time"

	"github.com/GhadeBhavesh/QZone/internal/domain"
)

const (
	// MaxRoomSize caps how many participants a room accepts.
	MaxRoomSize = 10
	// MinGamePlayers is the smallest roster a game can start with.
	MinGamePlayers = 2
)

// RoomRegistry owns the set of live rooms. A room with zero participants is
// deleted as part of the operation that emptied it, so it is never
// observable. All methods return defensive snapshots; callers never hold a
// reference into registry-owned state.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	clock func() time.Time
}

func NewRoomRegistry() *RoomRegistry {
	return NewRoomRegistryWithClock(time.Now)
}

// NewRoomRegistryWithClock allows deterministic timestamps in tests.
func NewRoomRegistryWithClock(now func() time.Time) *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*domain.Room),
		clock: now,
	}
}

// CreateOrGet returns the room, creating it when absent. The calling
// connection is appended to the roster on both paths, so a connection must
// not issue create-room twice for the same room. The capacity cap applies
// here too; a full room rejects the caller even on the idempotent path.
func (r *RoomRegistry) CreateOrGet(roomID, connID, displayName string) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = &domain.Room{
			ID:        roomID,
			Creator:   displayName,
			CreatedAt: r.clock(),
		}
		r.rooms[roomID] = room
	}
	if len(room.Participants) >= MaxRoomSize {
		return domain.Room{}, domain.ErrRoomFull
	}
	room.Participants = append(room.Participants, domain.Participant{
		ConnID:      connID,
		DisplayName: displayName,
		IsCreator:   true,
	})
	return snapshot(room), nil
}

// Join appends a non-creator participant and returns the updated roster.
func (r *RoomRegistry) Join(roomID, connID, displayName string) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if len(room.Participants) >= MaxRoomSize {
		return domain.Room{}, domain.ErrRoomFull
	}
	room.Participants = append(room.Participants, domain.Participant{
		ConnID:      connID,
		DisplayName: displayName,
		IsCreator:   false,
	})
	return snapshot(room), nil
}

// Leave removes the participant if present, deleting the room when it
// becomes empty. The returned snapshot reflects the roster after removal;
// removed is false when the room or participant was absent.
func (r *RoomRegistry) Leave(roomID, connID string) (domain.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return domain.Room{}, false
	}
	if !removeParticipant(room, connID) {
		return domain.Room{}, false
	}
	snap := snapshot(room)
	if len(room.Participants) == 0 {
		delete(r.rooms, roomID)
	}
	return snap, true
}

// RemoveEverywhere handles a transport-level disconnect: the connection is
// removed from every room it occupies, with the same empty-room cleanup as
// Leave. Safe when the connection is in zero or multiple rooms. Returns the
// post-removal snapshot of each affected room.
func (r *RoomRegistry) RemoveEverywhere(connID string) []domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected []domain.Room
	for roomID, room := range r.rooms {
		if !removeParticipant(room, connID) {
			continue
		}
		affected = append(affected, snapshot(room))
		if len(room.Participants) == 0 {
			delete(r.rooms, roomID)
		}
	}
	return affected
}

// Get returns a snapshot of the room.
func (r *RoomRegistry) Get(roomID string) (domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return domain.Room{}, false
	}
	return snapshot(room), true
}

// Connections lists the connection ids currently in the room, in roster
// order. Used by the broadcast gateway for room fan-out.
func (r *RoomRegistry) Connections(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	conns := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		conns = append(conns, p.ConnID)
	}
	return conns
}

func removeParticipant(room *domain.Room, connID string) bool {
	for i, p := range room.Participants {
		if p.ConnID == connID {
			room.Participants = append(room.Participants[:i], room.Participants[i+1:]...)
			return true
		}
	}
	return false
}

func snapshot(room *domain.Room) domain.Room {
	snap := *room
	snap.Participants = make([]domain.Participant, len(room.Participants))
	copy(snap.Participants, room.Participants)
	return snap
}
