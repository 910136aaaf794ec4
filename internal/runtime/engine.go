package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/calculator"
	"github.com/aretw0/abacus/pkg/domain"
)

// Engine is the stateless runner around the calculator state machine.
// Each call restores a calculator from a snapshot, applies one action and
// returns a new snapshot; the input state is never mutated. Safe for
// concurrent use as long as hooks are.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the event timestamp source (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates the initial state for a session.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.logger.Debug("session started", "session_id", sessionID)
	return domain.NewState(sessionID), nil
}

// Dispatch applies a single action to state and returns the resulting state.
func (e *Engine) Dispatch(ctx context.Context, state *domain.State, action domain.Action) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var computations []domain.Computation
	calc, err := calculator.Restore(state, calculator.WithObserver(func(c domain.Computation) {
		computations = append(computations, c)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to restore state: %w", err)
	}

	if err := calc.Apply(action); err != nil {
		e.logger.Debug("action rejected", "session_id", state.SessionID, "action", action.String(), "err", err)
		return nil, err
	}

	next := calc.State()
	e.logger.Debug("action applied",
		"session_id", next.SessionID,
		"action", action.String(),
		"display", next.CurrentValue,
		"mode", next.Mode,
	)

	e.emit(ctx, &next, action, computations)
	return &next, nil
}

// Press parses a keypad token and dispatches it.
func (e *Engine) Press(ctx context.Context, state *domain.State, key string) (*domain.State, error) {
	action, err := domain.ParseAction(key)
	if err != nil {
		return nil, err
	}
	return e.Dispatch(ctx, state, action)
}

// PressAll applies keys in order. On error it returns the state reached
// before the failing key together with the error.
func (e *Engine) PressAll(ctx context.Context, state *domain.State, keys []string) (*domain.State, error) {
	current := state
	for _, key := range keys {
		next, err := e.Press(ctx, current, key)
		if err != nil {
			return current, fmt.Errorf("key %q: %w", key, err)
		}
		current = next
	}
	return current, nil
}

// Calculate exposes the pure arithmetic helper and reports it to the hooks.
func (e *Engine) Calculate(ctx context.Context, op domain.Operator, a, b string) domain.Result {
	res := calculator.Calculate(op, a, b)
	if e.hooks.OnCompute != nil {
		e.hooks.OnCompute(ctx, &domain.ComputeEvent{
			EventBase:   e.base(domain.EventCompute, ""),
			Computation: domain.Computation{Operator: op, Left: a, Right: b, Result: res},
		})
	}
	return res
}

func (e *Engine) emit(ctx context.Context, next *domain.State, action domain.Action, computations []domain.Computation) {
	for _, c := range computations {
		if !c.Result.Defined() {
			e.logger.Info("undefined result", "session_id", next.SessionID, "operator", c.Operator, "left", c.Left, "right", c.Right)
		}
		if e.hooks.OnCompute != nil {
			e.hooks.OnCompute(ctx, &domain.ComputeEvent{
				EventBase:   e.base(domain.EventCompute, next.SessionID),
				Computation: c,
			})
		}
	}

	if action.Kind == domain.ActionClear && e.hooks.OnClear != nil {
		base := e.base(domain.EventClear, next.SessionID)
		e.hooks.OnClear(ctx, &base)
	}

	if e.hooks.OnAction != nil {
		e.hooks.OnAction(ctx, &domain.ActionEvent{
			EventBase: e.base(domain.EventAction, next.SessionID),
			Action:    action,
			Display:   next.CurrentValue,
			Mode:      next.Mode,
		})
	}
}

func (e *Engine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, SessionID: sessionID}
}
