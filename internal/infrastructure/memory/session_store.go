package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
)

type sessionEntry struct {
	s       application.Session
	expires time.Time
}

// SessionStore keeps sessions in process memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]sessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[int64]sessionEntry{}}
}

func (m *SessionStore) Save(_ context.Context, s application.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = sessionEntry{s: s, expires: time.Now().Add(ttl)}
	return nil
}

func (m *SessionStore) Get(_ context.Context, userID int64) (*application.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[userID]
	if !ok || time.Now().After(e.expires) {
		delete(m.sessions, userID)
		return nil, repository.ErrNotFound
	}
	s := e.s
	return &s, nil
}

func (m *SessionStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

var _ application.SessionStore = (*SessionStore)(nil)
