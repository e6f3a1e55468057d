package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/playzone-arcade/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	Start(ctx context.Context, gameType engine.GameType, difficulty string) (*StartResult, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	CountSessions(ctx context.Context) int
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Act(ctx context.Context, sessionID string, action engine.Action) (*ActionResult, error)
	PlayRPS(ctx context.Context, choice string) (*engine.RPSOutcome, error)

	// Configuration
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(game engine.Game) (*Session, error)
	Get(id string) (*Session, error)
	// With runs fn while holding the session's lock, so read-modify-write
	// sequences on one session never interleave.
	With(id string, fn func(*Session) error) error
	Update(id string, game engine.Game) error
	List() []*Session
	Delete(id string) error
	Count() int
}

// ConfigManager supplies the active game presets
type ConfigManager interface {
	Presets() engine.Presets
	ListPresets() []*PresetInfo
}

// Session represents an active game session
type Session struct {
	ID        string
	GameType  engine.GameType
	CreatedAt time.Time

	mu           sync.Mutex
	game         engine.Game
	lastAccessed atomic.Int64
}

// NewSession wraps game in a session created at now
func NewSession(id string, game engine.Game, now time.Time) *Session {
	s := &Session{
		ID:        id,
		GameType:  game.Type(),
		CreatedAt: now,
		game:      game,
	}
	s.lastAccessed.Store(now.UnixNano())
	return s
}

// Lock acquires the session's exclusive lock
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's lock
func (s *Session) Unlock() { s.mu.Unlock() }

// Game returns the game. The caller must hold the session lock.
func (s *Session) Game() engine.Game { return s.game }

// SetGame replaces the game with one of the same GameType. The caller must
// hold the session lock.
func (s *Session) SetGame(g engine.Game) { s.game = g }

// LastAccessedAt is safe to call without the session lock
func (s *Session) LastAccessedAt() time.Time {
	return time.Unix(0, s.lastAccessed.Load())
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.lastAccessed.Store(t.UnixNano())
}
