package tui

import (
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/muesli/termenv"
)

// NewDisplay returns a coloured display renderer for the given profile.
// With the Ascii profile it produces the same text as runner.PlainDisplay.
func NewDisplay(p termenv.Profile) runner.DisplayRenderer {
	return func(state *domain.State) string {
		value := p.String(state.CurrentValue).Bold()
		if state.Undefined() {
			value = value.Foreground(p.Color("#f87171"))
		} else {
			value = value.Foreground(p.Color("#34d399"))
		}

		out := value.String()
		if state.PendingOperator != domain.OperatorNone {
			pending := "    [" + state.PendingOperand + " " + string(state.PendingOperator) + "]"
			out += p.String(pending).Faint().String()
		}
		return out
	}
}
