// Package http exposes the dialog engine over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthub/agenthub/internal/logging"
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/persistence/middleware"
)

// Engine is the dialog engine surface the API needs.
type Engine interface {
	TurnMessages(ctx context.Context, userID string, messages []domain.Message, extra map[string]any) (*domain.ConversationState, error)
	EndSession(ctx context.Context, userID string) error
	History(userID string) []middleware.Snapshot
}

// Server handles the HTTP API.
type Server struct {
	engine  Engine
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsRegistry exposes the registry's metrics at /metrics.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.chat)
		r.Get("/graph/structure", s.graphStructure)
		r.Route("/session/{user_id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Get("/history", s.sessionHistory)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	UserID   string         `json:"user_id"`
	Messages []chatMessage  `json:"messages"`
	Context  map[string]any `json:"context,omitempty"`
}

type chatResponse struct {
	UserID         string        `json:"user_id"`
	Messages       []chatMessage `json:"messages"`
	Response       string        `json:"response"`
	Next           string        `json:"next"`
	DialogState    []string      `json:"dialog_state"`
	RequiresAction bool          `json:"requires_action"`
	ActionType     string        `json:"action_type,omitempty"`
	Department     string        `json:"department,omitempty"`
	PriorityLevel  string        `json:"priority_level,omitempty"`
	Terminal       bool          `json:"terminal"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		return
	}
	if len(body.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "messages must not be empty")
		return
	}
	incoming := make([]domain.Message, len(body.Messages))
	for i, m := range body.Messages {
		if !domain.ValidRole(domain.Role(m.Role)) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"unsupported message role: "+m.Role)
			return
		}
		if m.Content == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "message content is required")
			return
		}
		incoming[i] = domain.NewMessage(domain.Role(m.Role), m.Content)
	}

	state, err := s.engine.TurnMessages(r.Context(), body.UserID, incoming, body.Context)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"too many requests, please try again later")
			return
		}
		s.logger.Error("turn failed", "user_id", body.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to process message")
		return
	}

	resp := chatResponse{
		UserID:         body.UserID,
		Messages:       make([]chatMessage, len(state.Messages)),
		Next:           state.Next,
		DialogState:    state.DialogState,
		Department:     state.Context.PreviousDepartment,
		RequiresAction: state.RequiresAction,
		ActionType:     state.ActionType,
		PriorityLevel:  state.Context.PriorityLevel,
		Terminal:       state.Terminal(),
	}
	for i, m := range state.Messages {
		resp.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == domain.RoleAssistant {
			resp.Response = state.Messages[i].Content
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type graphNode struct {
	ID string `json:"id"`
}

type graphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type graphResponse struct {
	Nodes []graphNode `json:"nodes"`
	Edges []graphEdge `json:"edges"`
}

func (s *Server) graphStructure(w http.ResponseWriter, _ *http.Request) {
	resp := graphResponse{
		Nodes: make([]graphNode, 0, len(domain.Nodes)+1),
		Edges: make([]graphEdge, 0, len(domain.Edges)),
	}
	for _, id := range domain.Nodes {
		resp.Nodes = append(resp.Nodes, graphNode{ID: id})
	}
	resp.Nodes = append(resp.Nodes, graphNode{ID: domain.NodeEnd})
	for _, e := range domain.Edges {
		resp.Edges = append(resp.Edges, graphEdge{From: e[0], To: e[1]})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if err := s.engine.EndSession(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "no session for user")
			return
		}
		s.logger.Error("session delete failed", "user_id", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "user_id": userID})
}

func (s *Server) sessionHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"snapshots": s.engine.History(userID),
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
