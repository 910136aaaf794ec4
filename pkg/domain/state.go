package domain

import (
	"fmt"
	"strings"
)

// DefaultValue is the display of a freshly created or cleared calculator.
const DefaultValue = "0"

// NotANumber is the display marker for an undefined result (e.g. n / 0).
const NotANumber = "NaN"

// Mode is the input-mode tag of the state machine.
// It decides whether the next digit appends to the display or starts a new number.
type Mode string

const (
	ModeEntering        Mode = "entering"         // Digits append to the display
	ModeAwaitingOperand Mode = "awaiting_operand" // An operator was just selected
	ModeComputed        Mode = "computed"         // "=" just produced a result
	ModeChained         Mode = "chained"          // An operator was selected and a result is shown
)

// Valid reports whether m is a known mode. The empty mode is treated as ModeEntering.
func (m Mode) Valid() bool {
	switch m {
	case ModeEntering, ModeAwaitingOperand, ModeComputed, ModeChained, "":
		return true
	}
	return false
}

// Fresh reports whether the next digit or decimal entry starts a new number.
func (m Mode) Fresh() bool {
	return m != ModeEntering && m != ""
}

// OperatorSelected reports whether an operator was chosen since the last digit.
// A pending operator survives "=" in these modes.
func (m Mode) OperatorSelected() bool {
	return m == ModeAwaitingOperand || m == ModeChained
}

// ResultShown reports whether the display holds a result produced since the
// last digit. "=" replays the last operation in these modes.
func (m Mode) ResultShown() bool {
	return m == ModeComputed || m == ModeChained
}

// WithOperator returns the mode reached by selecting an operator from m.
func (m Mode) WithOperator() Mode {
	if m.ResultShown() {
		return ModeChained
	}
	return ModeAwaitingOperand
}

// State represents the current snapshot of a calculator session.
type State struct {
	// SessionID identifies the session owning this state (optional for embedded use).
	SessionID string `json:"session_id,omitempty"`

	// CurrentValue is the text on the display. Never empty.
	CurrentValue string `json:"current_value"`

	// PendingOperand and PendingOperator hold the first half of a binary operation
	// waiting for its second operand. Empty means "none".
	PendingOperand  string   `json:"pending_operand,omitempty"`
	PendingOperator Operator `json:"pending_operator,omitempty"`

	// LastOperand and LastOperator remember the most recently applied operation
	// so that a repeated "=" can replay it.
	LastOperand  string   `json:"last_operand,omitempty"`
	LastOperator Operator `json:"last_operator,omitempty"`

	// Mode is the input-mode tag.
	Mode Mode `json:"mode"`
}

// NewState creates the initial state for a session.
func NewState(sessionID string) *State {
	return &State{
		SessionID:    sessionID,
		CurrentValue: DefaultValue,
		Mode:         ModeEntering,
	}
}

// Snapshot returns a copy of the state. State holds no reference types, so a
// value copy is a deep copy.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Undefined reports whether the display shows the not-a-number marker.
func (s *State) Undefined() bool {
	return s.CurrentValue == NotANumber
}

// Validate checks the invariants of a state, typically one restored from storage.
func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidState)
	}
	if s.CurrentValue != NotANumber && !IsNumeral(s.CurrentValue) {
		return fmt.Errorf("%w: current value %q is not a numeral", ErrInvalidState, s.CurrentValue)
	}
	if s.PendingOperator != OperatorNone {
		if !s.PendingOperator.Valid() {
			return fmt.Errorf("%w: pending operator %q", ErrInvalidState, s.PendingOperator)
		}
		if s.PendingOperand == "" {
			return fmt.Errorf("%w: pending operator without operand", ErrInvalidState)
		}
	}
	if s.LastOperator != OperatorNone && !s.LastOperator.Valid() {
		return fmt.Errorf("%w: last operator %q", ErrInvalidState, s.LastOperator)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: mode %q", ErrInvalidState, s.Mode)
	}
	return nil
}

// IsNumeral reports whether v is a display numeral: an optional minus sign,
// at least one digit and at most one decimal point ("12", "0.", "-3.25").
func IsNumeral(v string) bool {
	v = strings.TrimPrefix(v, "-")
	if v == "" || v[0] == '.' {
		return false
	}
	dot := false
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '.':
			if dot {
				return false
			}
			dot = true
		case c < '0' || c > '9':
			return false
		}
	}
	return true
}
