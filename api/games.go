package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/scores"
	"github.com/wricardo/playzone-arcade/game/service"
	"github.com/wricardo/playzone-arcade/transport/websocket"
)

// gameRequest is the body of every game endpoint. Pointer fields tell a
// missing value apart from a zero value.
type gameRequest struct {
	GameID     *string `json:"game_id"`
	PlayerID   string  `json:"player_id,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
	Guess      *int    `json:"guess"`
	Position   *int    `json:"position"`
	CardIndex  *int    `json:"card_index"`
	Direction  *string `json:"direction"`
	Choice     *string `json:"choice"`
}

func missing(field string) error {
	return engine.Errorf(engine.KindInvalidInput, field, "%s is required", field)
}

func guessAction(req *gameRequest) (engine.Action, error) {
	if req.Guess == nil {
		return nil, missing("guess")
	}
	return engine.Guess{Value: *req.Guess}, nil
}

func placeAction(req *gameRequest) (engine.Action, error) {
	if req.Position == nil {
		return nil, missing("position")
	}
	return engine.Place{Position: *req.Position}, nil
}

func flipAction(req *gameRequest) (engine.Action, error) {
	if req.CardIndex == nil {
		return nil, missing("card_index")
	}
	return engine.Flip{Index: *req.CardIndex}, nil
}

func hideAction(*gameRequest) (engine.Action, error) {
	return engine.Hide{}, nil
}

// steerAction keeps the current heading when no direction is sent
func steerAction(req *gameRequest) (engine.Action, error) {
	if req.Direction == nil {
		return engine.Steer{}, nil
	}
	return engine.Steer{Direction: *req.Direction}, nil
}

func (s *Server) handleStart(gameType engine.GameType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gameRequest
		if err := decodeBody(r, &req); err != nil {
			s.fail(w, err)
			return
		}

		result, err := s.service.Start(r.Context(), gameType, req.Difficulty)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.metrics.gamesStarted.WithLabelValues(string(gameType)).Inc()

		if s.hub != nil {
			s.hub.BroadcastToSession(result.SessionID, websocket.EventStarted, result)
		}

		respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleAction(build func(*gameRequest) (engine.Action, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gameRequest
		if err := decodeBody(r, &req); err != nil {
			s.fail(w, err)
			return
		}
		if req.GameID == nil || *req.GameID == "" {
			s.fail(w, missing("game_id"))
			return
		}
		action, err := build(&req)
		if err != nil {
			s.fail(w, err)
			return
		}

		result, err := s.service.Act(r.Context(), *req.GameID, action)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.metrics.actions.WithLabelValues(string(result.GameType), string(result.Status)).Inc()

		if result.Result != nil && req.PlayerID != "" {
			s.record(r, w, req.PlayerID, *result.Result)
		}

		if s.hub != nil {
			s.hub.BroadcastToSession(result.SessionID, websocket.EventAction, result)
		}

		s.logAction(result, action)
		respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handlePlayRPS(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.Choice == nil {
		s.fail(w, missing("choice"))
		return
	}

	out, err := s.service.PlayRPS(r.Context(), *req.Choice)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.metrics.gamesStarted.WithLabelValues(string(engine.RockPaperScissors)).Inc()
	s.metrics.actions.WithLabelValues(string(engine.RockPaperScissors), string(out.Result)).Inc()

	if req.PlayerID != "" {
		s.record(r, w, req.PlayerID, out.Score())
	}

	respondJSON(w, http.StatusOK, out)
}

// record stores a finished game for playerID. A recording failure never
// fails the action that produced the result.
func (s *Server) record(r *http.Request, w http.ResponseWriter, playerID string, result engine.Result) {
	if s.scores == nil {
		return
	}
	saved, err := s.scores.Record(r.Context(), scores.FromResult(playerID, result))
	if err != nil {
		s.logger.Warn("failed to record score",
			zap.String("player", playerID),
			zap.String("game", string(result.GameType)),
			zap.Error(err),
		)
		return
	}
	s.metrics.scoresRecorded.Inc()
	w.Header().Set("X-Score-Id", saved.ID)
}

// logAction writes one compact line per applied action
func (s *Server) logAction(result *service.ActionResult, action engine.Action) {
	fields := []zap.Field{
		zap.String("session", result.SessionID),
		zap.String("game", string(result.GameType)),
		zap.String("action", action.ActionName()),
		zap.String("status", string(result.Status)),
	}
	switch out := result.Outcome.(type) {
	case *engine.GuessOutcome:
		fields = append(fields, zap.String("result", out.Result), zap.Int("attempts", out.Attempts))
	case *engine.TicTacToeOutcome:
		if out.AIMove != nil {
			fields = append(fields, zap.Int("ai_move", *out.AIMove))
		}
	case *engine.FlipOutcome:
		fields = append(fields, zap.String("flip", out.Status))
	case *engine.SnakeOutcome:
		fields = append(fields, zap.Int("score", out.Score), zap.Int("length", len(out.Snake)))
	}
	s.logger.Info("action", fields...)
}
