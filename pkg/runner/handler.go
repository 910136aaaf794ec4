package runner

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Input reads the next line typed by the user.
	// Returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// Output presents the state after a line has been applied.
	Output(ctx context.Context, state *domain.State) error

	// SystemOutput presents a meta-message (errors, help, banners).
	SystemOutput(ctx context.Context, msg string) error
}

// DisplayRenderer turns a state into the text shown to the user.
// This allows for TUI rendering (colours) without coupling the core package.
type DisplayRenderer func(state *domain.State) string

// PlainDisplay renders the display value followed by the pending operation, if any.
func PlainDisplay(state *domain.State) string {
	if state.PendingOperator != domain.OperatorNone {
		return state.CurrentValue + "    [" + state.PendingOperand + " " + string(state.PendingOperator) + "]"
	}
	return state.CurrentValue
}
