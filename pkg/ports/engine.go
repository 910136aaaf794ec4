package ports

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// StatelessEngine defines the interface for calculator cores that do not maintain internal state.
// This is the primary interface used by adapters (e.g., HTTP, MCP) that manage state externally or per-request.
type StatelessEngine interface {
	// Start creates the initial state for a session.
	Start(ctx context.Context, sessionID string) (*domain.State, error)

	// Dispatch applies one action and returns the new state.
	Dispatch(ctx context.Context, state *domain.State, action domain.Action) (*domain.State, error)

	// PressAll applies keypad tokens in order.
	PressAll(ctx context.Context, state *domain.State, keys ...string) (*domain.State, error)

	// Calculate performs a single stateless calculation.
	Calculate(ctx context.Context, op domain.Operator, a, b string) domain.Result
}
