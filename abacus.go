package abacus

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/abacus/internal/runtime"
	"github.com/aretw0/abacus/pkg/domain"
)

// Engine is the high-level entry point for the Abacus library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Abacus Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Default to a silent logger
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng
}

// Start creates the initial state for a new session.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.runtime.Start(ctx, sessionID)
}

// Dispatch applies a single action to the state and returns the new state.
// The given state is not modified.
func (e *Engine) Dispatch(ctx context.Context, state *domain.State, action domain.Action) (*domain.State, error) {
	return e.runtime.Dispatch(ctx, state, action)
}

// Press applies a single keypad token such as "7", ".", "+", "=" or "C".
func (e *Engine) Press(ctx context.Context, state *domain.State, key string) (*domain.State, error) {
	return e.runtime.Press(ctx, state, key)
}

// PressAll applies keypad tokens in order. Multi-character numbers ("12.5")
// are split into their digits.
func (e *Engine) PressAll(ctx context.Context, state *domain.State, keys ...string) (*domain.State, error) {
	var tokens []string
	for _, k := range keys {
		t, err := domain.Tokenize(k)
		if err != nil {
			return state, err
		}
		tokens = append(tokens, t...)
	}
	return e.runtime.PressAll(ctx, state, tokens)
}

// Evaluate runs a typed line ("12+3=") against the state.
func (e *Engine) Evaluate(ctx context.Context, state *domain.State, line string) (*domain.State, error) {
	return e.PressAll(ctx, state, line)
}

// Calculate performs a single stateless calculation.
func (e *Engine) Calculate(ctx context.Context, op domain.Operator, a, b string) domain.Result {
	return e.runtime.Calculate(ctx, op, a, b)
}
