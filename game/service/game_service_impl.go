package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/rng"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	rng      rng.Source
	logger   *zap.Logger
}

// NewGameService creates a new game service instance. A nil logger
// disables logging.
func NewGameService(sessions SessionManager, configs ConfigManager, src rng.Source, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		rng:      src,
		logger:   logger.Named("service"),
	}
}

// Start creates a fresh session for a session-backed game
func (s *gameServiceImpl) Start(ctx context.Context, gameType engine.GameType, difficulty string) (*StartResult, error) {
	game, err := engine.New(gameType, s.rng, s.configs.Presets(), difficulty)
	if err != nil {
		return nil, err
	}
	// the game is shared once Create publishes it
	view := game.View()

	session, err := s.sessions.Create(game)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("game started",
		zap.String("session", session.ID),
		zap.String("game", string(gameType)),
		zap.String("difficulty", difficulty),
	)

	return &StartResult{
		SessionID: session.ID,
		GameType:  gameType,
		View:      view,
	}, nil
}

// Act applies one action to a session under the session's lock
func (s *gameServiceImpl) Act(ctx context.Context, sessionID string, action engine.Action) (*ActionResult, error) {
	if action == nil {
		return nil, engine.Errorf(engine.KindInvalidInput, "action", "action is required")
	}

	var result *ActionResult
	err := s.sessions.With(sessionID, func(session *Session) error {
		game := session.Game()
		wasTerminal := game.IsTerminal()

		outcome, err := game.Apply(s.rng, action)
		if err != nil {
			return err
		}

		result = &ActionResult{
			SessionID: session.ID,
			GameType:  game.Type(),
			Outcome:   outcome,
			Status:    game.Status(),
		}
		if !wasTerminal && game.IsTerminal() {
			result.Result = game.Result()
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("action rejected",
			zap.String("session", sessionID),
			zap.String("action", action.ActionName()),
			zap.String("kind", string(engine.KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	fields := []zap.Field{
		zap.String("session", sessionID),
		zap.String("game", string(result.GameType)),
		zap.String("action", action.ActionName()),
		zap.String("status", string(result.Status)),
	}
	if result.Result != nil {
		fields = append(fields, zap.Int("points", result.Result.Points))
		s.logger.Info("game finished", fields...)
	} else {
		s.logger.Debug("action applied", fields...)
	}

	return result, nil
}

// PlayRPS plays one stateless round
func (s *gameServiceImpl) PlayRPS(ctx context.Context, choice string) (*engine.RPSOutcome, error) {
	out, err := engine.PlayRPS(s.rng, choice)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("rps round",
		zap.String("player", string(out.PlayerChoice)),
		zap.String("computer", string(out.ComputerChoice)),
		zap.String("result", string(out.Result)),
	)
	return out, nil
}

// GetSession returns the public view of a session
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionToInfo(session), nil
}

// CountSessions reports the number of live sessions without locking them
func (s *gameServiceImpl) CountSessions(ctx context.Context) int {
	return s.sessions.Count()
}

// ListSessions returns all sessions, newest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, s.sessionToInfo(session))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// ListPresets describes the playable games
func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.configs.ListPresets(), nil
}

// sessionToInfo snapshots a session under its lock without touching it
func (s *gameServiceImpl) sessionToInfo(session *Session) *SessionInfo {
	session.Lock()
	defer session.Unlock()

	game := session.Game()
	return &SessionInfo{
		ID:             session.ID,
		GameType:       session.GameType,
		Status:         game.Status(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt(),
		View:           game.View(),
	}
}
