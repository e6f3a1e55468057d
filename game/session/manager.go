package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/service"
)

var (
	ErrSessionNotFound      = engine.Errorf(engine.KindNotFound, "game_id", "session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = engine.Errorf(engine.KindInvalidInput, "game_id", "game_id is required")
	ErrNilGame              = errors.New("game is nil")
	ErrGameTypeMismatch     = engine.Errorf(engine.KindInvalidInput, "game_type", "replacement game must match the session's game type")
)

// Manager handles game session lifecycle. The map is guarded by mu; each
// session carries its own lock for the game it holds.
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
	now      func() time.Time
	newID    func() string
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create stores game under a fresh UUIDv4
func (m *Manager) Create(game engine.Game) (*service.Session, error) {
	if game == nil {
		return nil, ErrNilGame
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	if _, exists := m.sessions[id]; exists {
		return nil, ErrSessionAlreadyExists
	}

	session := service.NewSession(id, game, m.now())
	m.sessions[id] = session
	return session, nil
}

// Get retrieves a session by ID
func (m *Manager) Get(id string) (*service.Session, error) {
	if id == "" {
		return nil, ErrInvalidSessionID
	}

	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// With locks the session, records the access and runs fn. A session that
// is deleted while fn waits for the lock reports ErrSessionNotFound.
func (m *Manager) With(id string, fn func(*service.Session) error) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}

	session.Lock()
	defer session.Unlock()

	if !m.contains(id, session) {
		return ErrSessionNotFound
	}

	session.Touch(m.now())
	return fn(session)
}

// Update replaces the session's game atomically. The session's game type
// is fixed at creation, so the replacement must be of the same type.
func (m *Manager) Update(id string, game engine.Game) error {
	if game == nil {
		return ErrNilGame
	}
	return m.With(id, func(s *service.Session) error {
		if game.Type() != s.GameType {
			return ErrGameTypeMismatch
		}
		s.SetGame(game)
		return nil
	})
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	if id == "" {
		return ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Touch(m.now())
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) contains(id string, session *service.Session) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id] == session
}
