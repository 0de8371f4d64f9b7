package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/render"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
	"github.com/wricardo/mcp-training/leaderchess/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Lifecycle
	api.HandleFunc("/sessions/{id}/start", s.lifecycleHandler(s.service.StartGame)).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.lifecycleHandler(s.service.Restart)).Methods("POST")
	api.HandleFunc("/sessions/{id}/new-match", s.lifecycleHandler(s.service.StartNewMatch)).Methods("POST")
	api.HandleFunc("/sessions/{id}/home", s.lifecycleHandler(s.service.GoBackToHome)).Methods("POST")
	api.HandleFunc("/sessions/{id}/dimensions", s.handleDimensions).Methods("POST")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/select", s.handleSelect).Methods("POST")
	api.HandleFunc("/sessions/{id}/auto-select", s.lifecycleHandler(s.service.AutoSelect)).Methods("POST")
	api.HandleFunc("/sessions/{id}/legal-moves", s.handleLegalMoves).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/board.svg", s.handleBoardSVG).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service and engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidDimensions), errors.Is(err, engine.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrIllegalMove), errors.Is(err, engine.ErrGameInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func (s *Server) broadcast(sessionID string, state *engine.GameState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SESSION] created id=%s config=%s", session.ID, session.ConfigName)
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
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

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Lifecycle Handlers

// lifecycleHandler serves the body-less POST endpoints that return an ActionResult
func (s *Server) lifecycleHandler(op func(ctx context.Context, sessionID string) (*service.ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["id"]

		result, err := op(r.Context(), sessionID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		if result.Accepted {
			s.broadcast(sessionID, result.GameState)
		}
		respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Rows json.RawMessage `json:"rows"`
		Cols json.RawMessage `json:"cols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.ApplyDimensions(r.Context(), sessionID, rawText(req.Rows), rawText(req.Cols))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[RESIZE] session=%s board=%dx%d", sessionID, state.Rows, state.Cols)
	s.broadcast(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

// rawText returns a JSON string's contents or a number's literal text
func rawText(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(raw))
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// squareRef names a square either by coordinates or by label ("B3")
type squareRef struct {
	Position *engine.Position
	Square   string
}

// resolve turns a reference into a position on a board with the given rows
func (ref squareRef) resolve(rows int) (*engine.Position, error) {
	if ref.Position != nil {
		p := *ref.Position
		return &p, nil
	}
	if ref.Square == "" {
		return nil, nil
	}
	p, err := engine.ParseLabel(ref.Square, rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Server) boardRows(ctx context.Context, sessionID string) (int, error) {
	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return state.Rows, nil
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Position *engine.Position `json:"position"`
		Square   string           `json:"square,omitempty"`
	}
	// An empty body clears the selection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rows, err := s.boardRows(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	pos, err := squareRef{req.Position, req.Square}.resolve(rows)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.SelectPiece(r.Context(), sessionID, pos)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Accepted {
		s.broadcast(sessionID, result.GameState)
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	query := r.URL.Query()

	rows, err := s.boardRows(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var pos engine.Position
	if square := query.Get("square"); square != "" {
		if pos, err = engine.ParseLabel(square, rows); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		row, rowErr := strconv.Atoi(query.Get("row"))
		col, colErr := strconv.Atoi(query.Get("col"))
		if rowErr != nil || colErr != nil {
			respondError(w, http.StatusBadRequest, "row and col query parameters must be integers")
			return
		}
		pos = engine.Position{Row: row, Col: col}
	}

	moves, err := s.service.LegalMoves(r.Context(), sessionID, pos)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	squares := make([]string, len(moves))
	for i, m := range moves {
		squares[i] = m.Label(rows)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"from":    pos,
		"square":  pos.Label(rows),
		"moves":   moves,
		"squares": squares,
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		From       *engine.Position `json:"from"`
		To         *engine.Position `json:"to"`
		FromSquare string           `json:"from_square,omitempty"`
		ToSquare   string           `json:"to_square,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rows, err := s.boardRows(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	from, err := squareRef{req.From, req.FromSquare}.resolve(rows)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := squareRef{req.To, req.ToSquare}.resolve(rows)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if from == nil || to == nil {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, *from, *to)
	if err != nil {
		log.Printf("[MOVE] session=%s %s->%s status=REJECTED err=%v",
			sessionID, from.Label(rows), to.Label(rows), err)
		respondServiceError(w, err)
		return
	}

	if result.Success {
		rec := result.Record
		captured := "-"
		if rec.Captured != nil {
			captured = string(rec.Captured.Kind)
		}
		log.Printf("[MOVE] session=%s #%d %s %s %s->%s captured=%s status=OK",
			sessionID, rec.MoveNumber, rec.Piece.Side.ColorName(), rec.Piece.Kind,
			from.Label(rows), to.Label(rows), captured)
		if rec.Winner != nil {
			log.Printf("[VICTORY] session=%s winner=%s moves=%d",
				sessionID, rec.Winner.ColorName(), rec.MoveNumber)
		}
		s.broadcast(sessionID, result.GameState)
	} else {
		log.Printf("[MOVE] session=%s %s->%s status=IGNORED phase=%s",
			sessionID, from.Label(rows), to.Label(rows), result.GameState.Phase)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.SVG(w, state); err != nil {
		log.Printf("Failed to render board for session %s: %v", sessionID, err)
	}
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var gameConfig engine.GameConfig

	if err := json.NewDecoder(r.Body).Decode(&gameConfig); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if gameConfig.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := r.URL.Query().Get("id")
	if configID == "" {
		configID = configIDFromName(gameConfig.Name)
	}

	if err := s.service.SaveConfig(r.Context(), configID, &gameConfig); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// configIDFromName derives a file-safe identifier such as "big-board" from "Big Board"
func configIDFromName(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID, state)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
