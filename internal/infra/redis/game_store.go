package redis

import (
	"context"
	"sync"
	"time"

	"github.com/GhadeBhavesh/QZone/internal/app"
	"github.com/redis/go-redis/v9"
)

// GameStore is a Redis-aware implementation of app.GameStore.
// Notes:
//   - Sessions stay in a local in-memory map; game state is ephemeral and
//     process-local, so Redis never holds it.
//   - Redis marks session liveness, which lets operators see which rooms
//     are mid-game and could back cross-instance routing later.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.GameSession
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.GameSession),
	}
}

func (s *GameStore) Put(roomID string, game *app.GameSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[roomID]; ok {
		return false
	}
	s.games[roomID] = game
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(roomID), "1", s.ttl).Err()
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
	if _, ok := s.games[roomID]; !ok {
		return
	}
	delete(s.games, roomID)
	_ = s.client.Del(context.Background(), s.key(roomID)).Err()
}

func (s *GameStore) key(roomID string) string {
	return "game:session:" + roomID
}
