package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/report"
	"github.com/aretw0/stockcheck/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// App is the application surface the HTTP API exposes.
type App interface {
	Handle(ctx context.Context, conversationID, text string) (stockcheck.Reply, error)
	Current(ctx context.Context, conversationID string) (*domain.Prompt, error)
	Report(ctx context.Context) (domain.Report, error)
	Catalog() *catalog.Catalog
}

// Server holds the handlers of the JSON API.
type Server struct {
	App     App
	Streams *StreamManager

	logger    *slog.Logger
	sanitizer runner.Sanitizer
	metrics   http.Handler
	newID     func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithIDGenerator overrides the UUID generator for new conversations.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// WithSanitizer replaces the default message sanitizer.
func WithSanitizer(sanitizer runner.Sanitizer) Option {
	return func(s *Server) {
		s.sanitizer = sanitizer
	}
}

// NewHandler creates the HTTP handler for app.
func NewHandler(app App, opts ...Option) http.Handler {
	s := &Server{
		App:       app,
		logger:    logging.NewNop(),
		sanitizer: runner.DefaultSanitizer(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/catalog", s.GetCatalog)
	r.Get("/report", s.GetReport)
	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", s.CreateConversation)
		r.Get("/{id}", s.GetConversation)
		r.Post("/{id}/messages", s.SendMessage)
		r.Get("/{id}/events", s.SubscribeEvents)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>stockcheck API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ReplyResponse is the JSON form of stockcheck.Reply.
type ReplyResponse struct {
	Text   string          `json:"text"`
	State  string          `json:"state"`
	Done   bool            `json:"done"`
	Failed bool            `json:"failed"`
	Prompt *domain.Prompt  `json:"prompt,omitempty"`
	Report *ReportResponse `json:"report,omitempty"`
}

// ReportResponse is a report plus its chat rendering.
type ReportResponse struct {
	Lines     []string `json:"lines"`
	Deficient []string `json:"deficient"`
	Text      string   `json:"text"`
}

// ConversationResponse describes a collecting conversation.
type ConversationResponse struct {
	ID     string         `json:"id"`
	State  string         `json:"state"`
	Prompt *domain.Prompt `json:"prompt,omitempty"`
}

// MessageRequest is the body of POST /conversations/{id}/messages.
type MessageRequest struct {
	Text *string `json:"text"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("OpenAPI spec unusable", "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "stockcheck-http",
		"version":     strings.TrimSpace(stockcheck.Version),
		"api_version": apiVersion,
	})
}

// GetCatalog handles the GET /catalog request.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.App.Catalog().Order())
}

// GetReport handles the GET /report request.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.App.Report(r.Context())
	if err != nil {
		s.logger.Error("Report failed", "err", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(rep))
}

// CreateConversation handles the POST /conversations request.
func (s *Server) CreateConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"id": s.newID()})
}

// GetConversation handles the GET /conversations/{id} request.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prompt, err := s.App.Current(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusOK, ConversationResponse{ID: id, State: string(stockcheck.PhaseIdle)})
			return
		}
		s.logger.Error("GetConversation failed", "conversation_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ConversationResponse{
		ID:     id,
		State:  string(stockcheck.PhaseCollecting),
		Prompt: prompt,
	})
}

// SendMessage handles the POST /conversations/{id}/messages request.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body: expected {\"text\": string}"))
		s.logger.Warn("SendMessage: Invalid request body", "err", err)
		return
	}

	text, err := s.sanitizer.Clean(*body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid input: %w", err))
		s.logger.Warn("SendMessage: Input rejected", "err", err, "size", len(*body.Text))
		return
	}

	reply, err := s.App.Handle(r.Context(), id, text)
	if err != nil {
		s.logger.Error("SendMessage failed", "conversation_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := toReplyResponse(reply)
	if data, err := json.Marshal(resp); err == nil {
		s.Streams.Broadcast(id, string(data))
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles the GET /conversations/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Subscribed", "conversation_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "conversation_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func toReportResponse(r domain.Report) *ReportResponse {
	return &ReportResponse{
		Lines:     r.Lines,
		Deficient: r.Deficient,
		Text:      report.Text(r),
	}
}

func toReplyResponse(reply stockcheck.Reply) ReplyResponse {
	resp := ReplyResponse{
		Text:   reply.Text,
		State:  string(reply.Phase),
		Done:   reply.Done,
		Failed: reply.Failed,
		Prompt: reply.Prompt,
	}
	if reply.Report != nil {
		resp.Report = toReportResponse(*reply.Report)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
