package memory

import (
	"sync"

	"github.com/GhadeBhavesh/QZone/internal/app"
)

// GameStore is an in-memory implementation of app.GameStore. One live
// session per room; Put refuses a second.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*app.GameSession
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*app.GameSession),
	}
}

func (s *GameStore) Put(roomID string, game *app.GameSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[roomID]; ok {
		return false
	}
	s.games[roomID] = game
	return true
}

func (s *GameStore) Get(roomID string) (*app.GameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[roomID]
	return game, ok
}

func (s *GameStore) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, roomID)
}
