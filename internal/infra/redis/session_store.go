package redis

import (
	"context"
	"sync"
	"time"

	"daily-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Player sessions stay in a local map; the answer state machine is in-process.
//   - Redis holds a liveness marker per player so other instances can count
//     who is playing the current period.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.PlayerSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.PlayerSession),
	}
}

func (s *SessionStore) Put(session *app.PlayerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PlayerID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.PlayerID), session.JoinedAt.Unix(), s.ttl).Err()
}

// Get returns the local session and refreshes the player's liveness marker.
func (s *SessionStore) Get(playerID string) (*app.PlayerSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[playerID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(playerID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

func (s *SessionStore) Range(fn func(*app.PlayerSession)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		fn(session)
	}
}

// ActivePlayers counts live players across all instances sharing the Redis.
func (s *SessionStore) ActivePlayers(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, "quiz:player:*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (s *SessionStore) key(playerID string) string {
	return "quiz:player:" + playerID
}
