package memory

import (
	"context"
	"sync"

	"daily-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.PlayerSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.PlayerSession),
	}
}

func (s *SessionStore) Put(session *app.PlayerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PlayerID] = session
}

func (s *SessionStore) Get(playerID string) (*app.PlayerSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
	return session, ok
}

func (s *SessionStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, playerID)
}

func (s *SessionStore) Range(fn func(*app.PlayerSession)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		fn(session)
	}
}

// ActivePlayers reports how many players hold a session.
func (s *SessionStore) ActivePlayers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}
