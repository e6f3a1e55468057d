package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/scores"
)

type scoreRequest struct {
	PlayerID   string `json:"player_id"`
	GameType   string `json:"game_type"`
	Points     int    `json:"points"`
	Attempts   int    `json:"attempts"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleRecordScore(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "score recording is not enabled")
		return
	}

	var req scoreRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	saved, err := s.scores.Record(r.Context(), scores.Score{
		PlayerID:   req.PlayerID,
		GameType:   engine.GameType(req.GameType),
		Points:     req.Points,
		Attempts:   req.Attempts,
		Difficulty: engine.Difficulty(req.Difficulty),
	})
	if err != nil {
		if errors.Is(err, scores.ErrInvalidScore) {
			s.fail(w, engine.Errorf(engine.KindInvalidInput, "", "%s", err.Error()))
			return
		}
		s.fail(w, err)
		return
	}
	s.metrics.scoresRecorded.Inc()

	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handlePlayerScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "score recording is not enabled")
		return
	}
	playerID := mux.Vars(r)["id"]

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	list, err := s.scores.ListByPlayer(r.Context(), playerID, limit)
	if err != nil {
		s.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"count":     len(list),
		"scores":    list,
	})
}

func (s *Server) handleBestScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "score recording is not enabled")
		return
	}
	playerID := mux.Vars(r)["id"]

	best, err := s.scores.BestByPlayer(r.Context(), playerID)
	if err != nil {
		s.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"best":      best,
	})
}
