package store

import (
	"sync"
	"time"

	"github.com/nlyu1/highlow-exchange/internal/domain"
	"github.com/nlyu1/highlow-exchange/internal/game"
)

// Session is one hosted game instance. The game state itself is strictly
// single-threaded; Mu serializes all access to it across HTTP requests.
type Session struct {
	ID        string
	Mu        sync.Mutex
	State     *game.State
	CreatedAt time.Time
}

// SessionStore is a thread-safe in-memory store for game sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create adds a session to the store.
func (s *SessionStore) Create(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get retrieves a session by id. It returns domain.ErrGameNotFound if the
// session does not exist.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return sess, nil
}

// Delete removes a session by id. It returns domain.ErrGameNotFound if the
// session does not exist.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List returns every stored session in unspecified order.
func (s *SessionStore) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}
