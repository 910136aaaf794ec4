package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// SessionsURI is the resource listing stored sessions.
const SessionsURI = "abacus://sessions"

// DefaultSessionID is used when a tool call names no session.
const DefaultSessionID = "default"

// StateResponse is returned by the session tools and provides a unified structure across adapters.
type StateResponse struct {
	Display string        `json:"display" jsonschema_description:"Text shown on the calculator display"`
	State   *domain.State `json:"state" jsonschema_description:"Full calculator state after the call"`
}

// CalculateResponse is returned by the calculate tool.
type CalculateResponse struct {
	Kind    domain.ResultKind `json:"kind" jsonschema_description:"ok or undefined"`
	Value   string            `json:"value,omitempty" jsonschema_description:"Numeric result when kind is ok"`
	Display string            `json:"display" jsonschema_description:"Display text (NaN when undefined)"`
}

// PressKeysArgs are the arguments of the press_keys tool.
type PressKeysArgs struct {
	SessionID string `mapstructure:"session_id"`
	Keys      string `mapstructure:"keys"`
}

// SessionArgs are the arguments of get_display and clear.
type SessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

// CalculateArgs are the arguments of the calculate tool.
type CalculateArgs struct {
	Operator string `mapstructure:"operator"`
	Left     string `mapstructure:"left"`
	Right    string `mapstructure:"right"`
}

// Server wraps the Abacus Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.StatelessEngine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the MCP Server.
type Option func(*Server)

// WithLogger sets the logger used by the tools and the SSE transport.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.StatelessEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("abacus-mcp", strings.TrimSpace(abacus.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr (e.g. ":8081") until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr, "base_url", baseURL)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Description("Session to operate on (default: \"default\")"))

	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys in order, e.g. \"12.5*4=\". Keys: 0-9 . + - * / = C. Creates the session if needed."),
		sessionArg,
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to press; whitespace is ignored")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handlePressKeys))

	s.mcpServer.AddTool(mcp.NewTool("calculate",
		mcp.WithDescription("Perform one calculation without touching any session. Results are rounded to 4 decimal places."),
		mcp.WithString("operator", mcp.Required(), mcp.Description("One of + - * /")),
		mcp.WithString("left", mcp.Required(), mcp.Description("Left operand")),
		mcp.WithString("right", mcp.Required(), mcp.Description("Right operand")),
		mcp.WithOutputSchema[CalculateResponse](),
	), mcp.NewStructuredToolHandler(s.handleCalculate))

	s.mcpServer.AddTool(mcp.NewTool("get_display",
		mcp.WithDescription("Read the display and state of a session."),
		sessionArg,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetDisplay))

	s.mcpServer.AddTool(mcp.NewTool("clear",
		mcp.WithDescription("Press C: reset the session to 0."),
		sessionArg,
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleClear))
}

func (s *Server) handlePressKeys(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	var in PressKeysArgs
	if err := decodeArgs(args, &in); err != nil {
		return StateResponse{}, err
	}

	clean, err := runner.SanitizeInput(in.Keys)
	if err != nil {
		s.logger.Warn("MCP press_keys: Input rejected", "err", err, "size", len(in.Keys))
		return StateResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	keys, err := domain.Tokenize(clean)
	if err != nil {
		return StateResponse{}, err
	}

	state, err := s.sessions.UpdateOrStart(ctx, sessionID(in.SessionID), func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.engine.PressAll(ctx, current, keys...)
	})
	if err != nil {
		return StateResponse{}, err
	}
	return newStateResponse(state), nil
}

func (s *Server) handleCalculate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CalculateResponse, error) {
	var in CalculateArgs
	if err := decodeArgs(args, &in); err != nil {
		return CalculateResponse{}, err
	}

	op, err := domain.ParseOperator(in.Operator)
	if err != nil {
		return CalculateResponse{}, err
	}

	res := s.engine.Calculate(ctx, op, in.Left, in.Right)
	return CalculateResponse{Kind: res.Kind, Value: res.Value, Display: res.String()}, nil
}

func (s *Server) handleGetDisplay(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	var in SessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return StateResponse{}, err
	}

	state, err := s.sessions.Load(ctx, sessionID(in.SessionID))
	if err != nil {
		return StateResponse{}, err
	}
	return newStateResponse(state), nil
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	var in SessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return StateResponse{}, err
	}

	state, err := s.sessions.UpdateOrStart(ctx, sessionID(in.SessionID), func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.engine.Dispatch(ctx, current, domain.Clear())
	})
	if err != nil {
		return StateResponse{}, err
	}
	return newStateResponse(state), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Stored calculator sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.sessionsJSON(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (s *Server) sessionsJSON(ctx context.Context) (string, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list sessions: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(map[string][]string{"sessions": ids})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeArgs maps loosely typed tool arguments onto a struct.
// Numbers sent for string fields ("left": 2) are accepted.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func sessionID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return DefaultSessionID
}

func newStateResponse(state *domain.State) StateResponse {
	return StateResponse{Display: state.CurrentValue, State: state}
}
