package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 64 << 10

// maxSessionIDLen bounds client-chosen session IDs.
const maxSessionIDLen = 128

// Server serves calculator sessions over HTTP.
type Server struct {
	Engine   ports.StatelessEngine
	Sessions *session.Manager
	Streams  *StreamManager

	logger      *slog.Logger
	corsOrigin  string
	metricsPath string
	metrics     http.Handler
	newID       func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger for requests and streams.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value. Empty disables CORS headers.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

// WithMetrics mounts a metrics handler (e.g. promhttp) at path.
func WithMetrics(path string, h http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metrics = h
	}
}

// WithIDGenerator overrides how new session IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewServer creates a Server. Use Routes to obtain its handler.
func NewServer(engine ports.StatelessEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:     engine,
		Sessions:   sessions,
		logger:     logging.NewNop(),
		corsOrigin: "*",
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.StatelessEngine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.corsOrigin != "" {
		r.Use(s.enableCORS)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, swaggerHTML)
	})

	r.Post("/calculate", s.Calculate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/keys", s.PressKeys)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.metrics != nil && s.metricsPath != "" {
		r.Method(http.MethodGet, s.metricsPath, s.metrics)
	}
	return r
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		w.Header().Set("Access-Control-Expose-Headers", "ETag")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Abacus API Documentation</title>
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

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "abacus-http",
		"version":     strings.TrimSpace(abacus.Version),
		"api_version": apiVersion,
	})
}

// GetSpec serves the embedded OpenAPI document.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	if _, err := GetSwagger(); err != nil {
		s.logger.Error("Failed to load OpenAPI spec", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load spec")
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(rawSpec)
}

// CalculateRequest is the body of POST /calculate.
type CalculateRequest struct {
	Operator string `json:"operator"`
	Left     string `json:"left"`
	Right    string `json:"right"`
}

// CalculateResponse is a domain.Result plus its display text.
type CalculateResponse struct {
	domain.Result
	Display string `json:"display"`
}

// Calculate handles the POST /calculate request.
func (s *Server) Calculate(w http.ResponseWriter, r *http.Request) {
	var body CalculateRequest
	if !s.decode(w, r, &body) {
		return
	}

	op, err := domain.ParseOperator(body.Operator)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.Engine.Calculate(r.Context(), op, body.Left, body.Right)
	s.writeJSON(w, http.StatusOK, CalculateResponse{Result: res, Display: res.String()})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeDomainError(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	ID string `json:"id"`
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}

	id := strings.TrimSpace(body.ID)
	if id == "" {
		id = s.newID()
	}
	if err := validateSessionID(id); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.Sessions.LoadOrStart(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, "CreateSession", err)
		return
	}

	w.Header().Set("Location", "/sessions/"+id)
	s.writeJSON(w, http.StatusCreated, state)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, "GetSession", err)
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		s.writeDomainError(w, "GetSession", err)
		return
	}

	etag := ETag(data)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(data, '\n'))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// KeysRequest is the body of POST /sessions/{id}/keys.
// Keys holds individual tokens; Input holds a typed line. Both may be set,
// in which case Keys are pressed first.
type KeysRequest struct {
	Keys  []string `json:"keys"`
	Input string   `json:"input"`
}

// PressKeys handles the POST /sessions/{id}/keys request.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body KeysRequest
	if !s.decode(w, r, &body) {
		return
	}

	keys, err := parseKeys(body)
	if err != nil {
		s.logger.Warn("PressKeys: Input rejected", "err", err, "session_id", id)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var before *domain.State
	state, err := s.Sessions.Update(r.Context(), id, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		before = current.Snapshot()
		return s.Engine.PressAll(ctx, current, keys...)
	})
	if err != nil {
		s.writeDomainError(w, "PressKeys", err)
		return
	}

	if diff := domain.Diff(before, state); diff != nil {
		if data, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}

	s.writeJSON(w, http.StatusOK, state)
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("SubscribeEvents: Streaming not supported")
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	watch := parseWatch(r.URL.Query().Get("watch"))

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matchesWatch(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

// ETag is a strong validator derived from the JSON body.
func ETag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

func parseKeys(body KeysRequest) ([]string, error) {
	keys, err := runner.SanitizeKeys(body.Keys)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if _, err := domain.ParseAction(k); err != nil {
			return nil, err
		}
	}

	if body.Input != "" {
		clean, err := runner.SanitizeInput(body.Input)
		if err != nil {
			return nil, err
		}
		tokens, err := domain.Tokenize(clean)
		if err != nil {
			return nil, err
		}
		keys = append(keys, tokens...)
	}

	if len(keys) == 0 {
		return nil, errors.New("no keys given")
	}
	return keys, nil
}

func parseWatch(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	watch := make(map[string]bool)
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			watch[field] = true
		}
	}
	return watch
}

// matchesWatch reports whether a serialized diff touches a watched field group.
func matchesWatch(msg string, watch map[string]bool) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	return (watch["display"] && diff.CurrentValue != nil) ||
		(watch["pending"] && (diff.PendingOperand != nil || diff.PendingOperator != nil)) ||
		(watch["last"] && (diff.LastOperand != nil || diff.LastOperator != nil)) ||
		(watch["mode"] && diff.Mode != nil)
}

func validateSessionID(id string) error {
	if len(id) > maxSessionIDLen {
		return fmt.Errorf("session id longer than %d characters", maxSessionIDLen)
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return fmt.Errorf("session id contains invalid character %q", c)
		}
	}
	if id == "." || id == ".." {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeDomainError maps domain errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownKey),
		errors.Is(err, domain.ErrInvalidDigit),
		errors.Is(err, domain.ErrInvalidOperator),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error(op+" failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
