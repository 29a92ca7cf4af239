package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/tendero"
	"github.com/aretw0/tendero/internal/logging"
	"github.com/aretw0/tendero/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// Dispatcher is the part of runner.Dispatcher the webhook needs.
type Dispatcher interface {
	Handle(ctx context.Context, in runner.Inbound) ([]string, error)
	Reset(ctx context.Context, identity string) error
}

// Server implements the generated ServerInterface.
type Server struct {
	Dispatcher Dispatcher
	Streams    *StreamManager

	logger         *slog.Logger
	metrics        http.Handler
	allowedOrigins []string
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithAllowedOrigins enables CORS for the given browser origins.
// Without it no CORS headers are sent and only same-origin pages can call the
// webhook, which matters because the event stream carries client names.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = append(s.allowedOrigins, origins...)
	}
}

// NewHandler creates the HTTP handler for the dispatcher. Requests to the
// contract routes are validated against the embedded OpenAPI document before
// they reach the Server.
func NewHandler(d Dispatcher, opts ...Option) http.Handler {
	server := &Server{
		Dispatcher: d,
		Streams:    NewStreamManager(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(server.allowedOrigins) > 0 {
		r.Use(cors.New(corsOptions(server.allowedOrigins)).Handler)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		spec, err := rawSpec()
		if err != nil {
			server.logger.Error("failed to load OpenAPI spec", "err", err)
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	var mws []MiddlewareFunc
	if validate, err := requestValidator(); err != nil {
		server.logger.Error("request validation disabled", "err", err)
	} else {
		mws = append(mws, validate)
	}
	return HandlerWithOptions(server, ChiServerOptions{
		BaseRouter:       r,
		Middlewares:      mws,
		ErrorHandlerFunc: writeParamError,
	})
}

func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tendero Webhook API</title>
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

// PostMessage handles POST /v1/messages.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var body PostMessageJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("PostMessage: invalid request body", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(body.Identity) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "identity is required"})
		return
	}

	replies, err := s.Dispatcher.Handle(r.Context(), runner.Inbound{Identity: body.Identity, Text: body.Text})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Info("PostMessage: request cancelled", "identity", body.Identity)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		s.logger.Error("PostMessage failed", "identity", body.Identity, "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if replies == nil {
		replies = []string{}
	}

	resp := MessageResponse{Replies: replies}
	if payload, err := json.Marshal(resp); err == nil {
		s.Streams.Broadcast(body.Identity, string(payload))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteSession handles DELETE /v1/sessions/{identity}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, identity Identity) {
	if err := s.Dispatcher.Reset(r.Context(), identity); err != nil {
		if errors.Is(err, runner.ErrEmptyIdentity) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("DeleteSession failed", "identity", identity, "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		App:     "tendero-http",
		Version: strings.TrimSpace(tendero.Version),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// StreamManager fans replies out to the event streams of an identity.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // identity -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(identity string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[identity]; !ok {
		sm.subscribers[identity] = make(map[chan<- string]struct{})
	}
	sm.subscribers[identity][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[identity]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, identity)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(identity string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[identity] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: client buffer full, dropping message", "identity", identity)
		}
	}
}

// SubscribeEvents handles GET /v1/sessions/{identity}/events (SSE). Every
// reply batch sent to the identity is mirrored as one data event. The stream
// is unauthenticated and must sit behind a trusted gateway.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, identity Identity) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	ch, cancel := s.Streams.Subscribe(identity)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Write([]byte("event: ping\ndata: connected\n\n"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()
		}
	}
}
