package api

import (
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

	"github.com/wricardo/route-plotter/route/config"
	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
	"github.com/wricardo/route-plotter/route/service"
	"github.com/wricardo/route-plotter/route/session"
	"github.com/wricardo/route-plotter/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RouteService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(routeService service.RouteService, hub *websocket.Hub) *Server {
	s := &Server{
		service: routeService,
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
	api.HandleFunc("/routes", s.handleLoadRoute).Methods("POST")

	// Route operations
	api.HandleFunc("/sessions/{id}/route", s.handleGetRoute).Methods("GET")
	api.HandleFunc("/sessions/{id}/grid", s.handleGetGrid).Methods("GET")
	api.HandleFunc("/sessions/{id}/export", s.handleExport).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/coordinates", s.handleRemoveCoordinate).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/coordinates/{index}", s.handleRemoveCoordinate).Methods("DELETE")

	// Profiles
	api.HandleFunc("/profiles", s.handleListProfiles).Methods("GET")
	api.HandleFunc("/profiles", s.handleCreateProfile).Methods("POST")
	api.HandleFunc("/profiles/{name}", s.handleGetProfile).Methods("GET")

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

func respondText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, text)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error": message,
		"code":  status,
	})
}

// statusFor maps service and engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, loader.ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, loader.ErrMalformedStart),
		errors.Is(err, engine.ErrIndexOutOfRange),
		errors.Is(err, engine.ErrInvalidDirection),
		errors.Is(err, engine.ErrInvalidDimensions),
		errors.Is(err, config.ErrInvalidProfile),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrOutOfGrid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrLastCoordinate),
		errors.Is(err, loader.ErrNotContiguous),
		errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

// broadcastRoute pushes the latest route of a session to WebSocket subscribers
func (s *Server) broadcastRoute(r *http.Request, sessionID string) {
	if s.hub == nil {
		return
	}
	view, err := s.service.GetRoute(r.Context(), sessionID)
	if err != nil {
		log.Printf("Failed to load route for broadcast: %v", err)
		return
	}
	s.hub.BroadcastRoute(sessionID, view)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile string             `json:"profile,omitempty"`
		Start   *engine.Coordinate `json:"start,omitempty"`
	}

	// An empty body means the default profile and start
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req.Profile, req.Start)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[CREATE] session=%s profile=%s start=%s grid=%dx%d", info.ID, info.ProfileID, info.Start, info.Rows, info.Cols)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleLoadRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile     string `json:"profile,omitempty"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respondError(w, http.StatusBadRequest, "Route description is required")
		return
	}

	result, err := s.service.LoadRoute(r.Context(), req.Profile, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[LOAD] session=%s moves=%d skipped=%d end=%s", result.Session.ID, result.Moves, len(result.Skipped), result.Session.Current)
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
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
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
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

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventSessionDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Route Handlers

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetRoute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetRoute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondText(w, http.StatusOK, view.Grid+"\n")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	description, err := s.service.ExportRoute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondText(w, http.StatusOK, description)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Success {
		s.broadcastRoute(r, sessionID)
		log.Printf("[MOVE] session=%s %s %s->%s len=%d", sessionID, result.Direction, result.From, result.To, result.Length)
	} else {
		log.Printf("[MOVE] session=%s REJECTED dir=%q code=%s at=%s", sessionID, result.Direction, result.Code, result.Current)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Moves []string `json:"moves"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, req.Moves)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.MovesExecuted > 0 {
		s.broadcastRoute(r, sessionID)
	}

	stop := result.StopReasonCode
	if stop == "" {
		stop = "none"
	}
	log.Printf("[BULK] session=%s exec=%d/%d skipped=%d stop=%s end=%s",
		sessionID, result.MovesExecuted, result.RequestedMoves, len(result.Skipped), stop, result.EndPos)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemoveCoordinate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	var index *int
	if raw, ok := vars["index"]; ok {
		i, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid coordinate index %q", raw))
			return
		}
		index = &i
	}

	result, err := s.service.RemoveCoordinate(r.Context(), sessionID, index)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastRoute(r, sessionID)
	log.Printf("[REMOVE] session=%s index=%d removed=%s len=%d", sessionID, result.Index, result.Removed, result.Length)

	respondJSON(w, http.StatusOK, result)
}

// Profile Handlers

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.service.ListProfiles(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if profiles == nil {
		profiles = []*service.ProfileInfo{}
	}

	respondJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.service.LoadProfile(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile engine.Profile

	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if profile.Name == "" {
		respondError(w, http.StatusBadRequest, "Profile name is required")
		return
	}

	if err := s.service.SaveProfile(r.Context(), profile.Name, &profile); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save profile: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Profile saved successfully",
		"profile_id": profile.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
