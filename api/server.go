package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/toyrobot/game/config"
	"github.com/wricardo/mcp-training/toyrobot/game/engine"
	"github.com/wricardo/mcp-training/toyrobot/game/service"
	"github.com/wricardo/mcp-training/toyrobot/game/session"
	"github.com/wricardo/mcp-training/toyrobot/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.SimulatorService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(svc service.SimulatorService, hub *websocket.Hub) *Server {
	s := &Server{
		service: svc,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Robot operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/sessions/{id}/place", s.handlePlace).Methods("POST")
	api.HandleFunc("/sessions/{id}/command", s.handleCommand).Methods("POST")
	api.HandleFunc("/sessions/{id}/sequence", s.handleSequence).Methods("POST")
	api.HandleFunc("/sessions/{id}/run", s.handleRun).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/report", s.handleReport).Methods("GET")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/scenarios/{name}/run", s.handleRunScenario).Methods("POST")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleSaveScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
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

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, config.ErrScenarioNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, config.ErrInvalidScenario):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// broadcast pushes the session's new state to WebSocket watchers
func (s *Server) broadcast(sessionID string, state *engine.RobotState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.CreateSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
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

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
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

// Robot Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		X      *int   `json:"x"`
		Y      *int   `json:"y"`
		Facing string `json:"facing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.X == nil || req.Y == nil || strings.TrimSpace(req.Facing) == "" {
		respondError(w, http.StatusBadRequest, "x, y and facing are required")
		return
	}

	result, err := s.service.Place(r.Context(), sessionID, service.PlaceRequest{X: *req.X, Y: *req.Y, Facing: req.Facing})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	logCommand(sessionID, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Command(r.Context(), sessionID, req.Command)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	logCommand(sessionID, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Commands []string `json:"commands"`
		Text     string   `json:"text,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Newline-separated text is accepted as an alternative to a list
	commands := req.Commands
	if len(commands) == 0 && req.Text != "" {
		commands = strings.Split(req.Text, "\n")
	}

	result, err := s.service.Sequence(r.Context(), sessionID, commands)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	log.Printf("[SEQ] session=%s exec=%d/%d changed=%d report=%s",
		sessionID, result.Executed, result.Requested, result.Changed, reportOrNone(result.Report))

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req service.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Run(r.Context(), sessionID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	log.Printf("[RUN] session=%s place=%d,%d,%s cmds=%d report=%s",
		sessionID, req.X, req.Y, strings.ToUpper(req.Facing), len(req.Commands), reportOrNone(result.Report))

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Robot reset successfully",
		"state":   state,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	report, err := s.service.Report(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	scenario, err := s.service.LoadScenario(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var scenario engine.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(scenario.Name) == "" {
		respondError(w, http.StatusBadRequest, "Scenario name is required")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		id = scenarioIDFromName(scenario.Name)
	}

	if err := s.service.SaveScenario(r.Context(), id, &scenario); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Scenario saved successfully",
		"scenario_id": id,
	})
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	name := vars["name"]

	result, err := s.service.RunScenario(r.Context(), sessionID, name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, "scenario_run", map[string]interface{}{
			"scenario": result.Scenario,
			"report":   result.Report,
			"matched":  result.Matched,
		})
	}
	log.Printf("[SCENARIO] session=%s name=%s report=%s expected=%s",
		sessionID, result.Scenario, reportOrNone(result.Report), reportOrNone(result.Expected))

	respondJSON(w, http.StatusOK, result)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(context.Background(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// logCommand writes a compact one-line trace of a single command
func logCommand(sessionID string, result *service.CommandResult) {
	outcome := "ignored"
	if len(result.Events) > 0 {
		outcome = result.Events[0].Type
	}
	log.Printf("[CMD] session=%s %s %s -> %s (%s)",
		sessionID, result.Command, placementOrNone(result.Before), placementOrNone(result.After), outcome)
}

func placementOrNone(p *engine.Placement) string {
	if p == nil {
		return "unplaced"
	}
	return p.String()
}

func reportOrNone(report string) string {
	if report == "" {
		return "none"
	}
	return report
}

// scenarioIDFromName turns "North Edge" into "north_edge"
func scenarioIDFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
