package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// MemorySessionStore keeps conversation sessions in memory, keyed by Telegram user ID.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]entities.Session
	ttl      time.Duration
}

// NewMemorySessionStore creates a MemorySessionStore.
// Sessions idle for longer than ttl are treated as missing; zero disables expiry.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]entities.Session),
		ttl:      ttl,
	}
}

// Get returns a copy of the user's session.
func (s *MemorySessionStore) Get(_ context.Context, userID int64) (*entities.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return nil, entities.ErrSessionNotFound
	}

	return cloneSession(session), nil
}

// Save stores the session, replacing the previous one.
func (s *MemorySessionStore) Save(_ context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = *cloneSession(*session)
	return nil
}

// Delete removes the user's session.
func (s *MemorySessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// Purge drops expired sessions and returns how many were removed.
func (s *MemorySessionStore) Purge() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunPurge purges expired sessions every interval until ctx is done.
func (s *MemorySessionStore) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Purge()
		}
	}
}

func (s *MemorySessionStore) expired(session entities.Session) bool {
	return s.ttl > 0 && time.Since(session.UpdatedAt) > s.ttl
}

// cloneSession copies the session deep enough that callers cannot mutate stored state.
func cloneSession(session entities.Session) *entities.Session {
	if session.Quiz != nil {
		quiz := *session.Quiz
		quiz.Options = append([]entities.AnswerOption(nil), session.Quiz.Options...)
		session.Quiz = &quiz
	}
	return &session
}
