package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/scores"
	"github.com/wricardo/playzone-arcade/game/service"
	"github.com/wricardo/playzone-arcade/transport/websocket"
)

// ScoreStore records and reads finished game scores
type ScoreStore interface {
	scores.Recorder
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]scores.Score, error)
	BestByPlayer(ctx context.Context, playerID string) (map[engine.GameType]int, error)
	Ping(ctx context.Context) error
}

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	scores  ScoreStore
	logger  *zap.Logger
	metrics *metrics
	router  *mux.Router
}

// NewServer creates a new API server. hub and store may be nil, which
// disables live updates and score recording.
func NewServer(gameService service.GameService, hub *websocket.Hub, store ScoreStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		scores:  store,
		logger:  logger.Named("api"),
		router:  mux.NewRouter(),
	}
	s.metrics = newMetrics(s.activeSessions)

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Games
	api.HandleFunc("/number-guess/start", s.handleStart(engine.NumberGuess)).Methods("POST")
	api.HandleFunc("/number-guess/guess", s.handleAction(guessAction)).Methods("POST")
	api.HandleFunc("/rps/play", s.handlePlayRPS).Methods("POST")
	api.HandleFunc("/tictactoe/start", s.handleStart(engine.TicTacToe)).Methods("POST")
	api.HandleFunc("/tictactoe/move", s.handleAction(placeAction)).Methods("POST")
	api.HandleFunc("/memory/start", s.handleStart(engine.Memory)).Methods("POST")
	api.HandleFunc("/memory/flip", s.handleAction(flipAction)).Methods("POST")
	api.HandleFunc("/memory/hide-cards", s.handleAction(hideAction)).Methods("POST")
	api.HandleFunc("/snake/start", s.handleStart(engine.Snake)).Methods("POST")
	api.HandleFunc("/snake/move", s.handleAction(steerAction)).Methods("POST")

	// Session management
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Scores
	api.HandleFunc("/scores", s.handleRecordScore).Methods("POST")
	api.HandleFunc("/players/{id}/scores", s.handlePlayerScores).Methods("GET")
	api.HandleFunc("/players/{id}/best-scores", s.handleBestScores).Methods("GET")

	// Configuration
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string      `json:"error"`
	Kind  engine.Kind `json:"kind,omitempty"`
	Field string      `json:"field,omitempty"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind engine.Kind) int {
	switch kind {
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindInvalidState, engine.KindInvalidMove, engine.KindInvalidChoice, engine.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status for its kind
func (s *Server) fail(w http.ResponseWriter, err error) {
	kind := engine.KindOf(err)
	status := statusFor(kind)

	label := string(kind)
	if label == "" {
		label = "internal"
	}
	s.metrics.errors.WithLabelValues(label).Inc()

	message := err.Error()
	var e *engine.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}

	respondJSON(w, status, errorResponse{Error: message, Kind: kind, Field: engine.FieldOf(err)})
}

// decodeBody reads an optional JSON body into v. An empty body is not an
// error.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return engine.Errorf(engine.KindInvalidInput, "body", "invalid request body")
	}
	return nil
}

func (s *Server) activeSessions() float64 {
	return float64(s.service.CountSessions(context.Background()))
}

// Session Handlers

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created" (default), "accessed"
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "created"
	}
	if order == "" {
		order = "desc"
	}

	if gameType := query.Get("game_type"); gameType != "" {
		gt, err := engine.ParseGameType(gameType)
		if err != nil {
			s.fail(w, err)
			return
		}
		filtered := sessions[:0]
		for _, info := range sessions {
			if info.GameType == gt {
				filtered = append(filtered, info)
			}
		}
		sessions = filtered
	}
	total := len(sessions)

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "accessed" {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		} else {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		s.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.fail(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, websocket.EventDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "session deleted",
		"game_id": sessionID,
	})
}

// Configuration Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "live updates are not enabled")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session parameter required")
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		s.fail(w, err)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "healthy"}
	if s.scores != nil {
		resp["scores"] = "ok"
		if err := s.scores.Ping(r.Context()); err != nil {
			resp["status"] = "degraded"
			resp["scores"] = "unavailable"
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
