package calculator

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Observer receives every arithmetic step the calculator performs.
type Observer func(domain.Computation)

// Calculator is the state machine behind a calculator keypad.
// It is not safe for concurrent use.
type Calculator struct {
	state    domain.State
	observer Observer
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithObserver registers a callback invoked after each computation.
func WithObserver(fn Observer) Option {
	return func(c *Calculator) {
		c.observer = fn
	}
}

// New creates a calculator in its initial state.
func New(opts ...Option) *Calculator {
	c := &Calculator{state: *domain.NewState("")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore creates a calculator resuming from a snapshot.
// The snapshot is validated and copied; the caller keeps ownership of s.
func Restore(s *domain.State, opts ...Option) (*Calculator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := New(opts...)
	c.state = *s
	if c.state.Mode == "" {
		c.state.Mode = domain.ModeEntering
	}
	return c, nil
}

// CurrentValue returns the text on the display.
func (c *Calculator) CurrentValue() string {
	return c.state.CurrentValue
}

// State returns a copy of the current state.
func (c *Calculator) State() domain.State {
	return c.state
}

// Apply dispatches a keypad action to the matching method.
func (c *Calculator) Apply(a domain.Action) error {
	switch a.Kind {
	case domain.ActionDigit:
		return c.EnterValue(a.Digit)
	case domain.ActionDecimal:
		c.EnterDecimal()
	case domain.ActionOperator:
		return c.EnterOperator(a.Operator)
	case domain.ActionEquals:
		c.CalculateTotal()
	case domain.ActionClear:
		c.Clear()
	default:
		return fmt.Errorf("%w: action kind %q", domain.ErrUnknownKey, a.Kind)
	}
	return nil
}

// EnterValue accepts a single digit. It starts a new number when the display
// shows the default "0", right after an operator or a result, or after an
// undefined result; otherwise it appends.
func (c *Calculator) EnterValue(digit string) error {
	if !domain.IsDigit(digit) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDigit, digit)
	}

	s := &c.state
	if s.CurrentValue == domain.DefaultValue || s.Mode.Fresh() || s.Undefined() {
		s.CurrentValue = digit
		c.startNumber()
		return nil
	}
	s.CurrentValue += digit
	return nil
}

// EnterDecimal appends a decimal point unless the display already has one.
// Right after an operator or a result the new number starts as "0.".
func (c *Calculator) EnterDecimal() {
	s := &c.state
	if s.Mode.Fresh() || s.Undefined() {
		s.CurrentValue = domain.DefaultValue
		c.startNumber()
	}
	if !strings.Contains(s.CurrentValue, ".") {
		s.CurrentValue += "."
	}
}

// EnterOperator selects a binary operator. With no pending operation it
// stashes the display as the first operand. With one pending it computes it
// and keeps op pending for the result (operator chaining).
func (c *Calculator) EnterOperator(op domain.Operator) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOperator, string(op))
	}

	s := &c.state
	s.Mode = s.Mode.WithOperator()

	if s.PendingOperator == domain.OperatorNone {
		s.PendingOperator = op
		s.PendingOperand = s.CurrentValue
		return nil
	}

	if defined(s.PendingOperand) && defined(s.CurrentValue) {
		c.applyPending()
	}
	s.PendingOperator = op
	return nil
}

// CalculateTotal is the "=" key. While a result is shown it first replays the
// last operation on that result, then applies the pending operation if any.
// Without either it does nothing.
func (c *Calculator) CalculateTotal() {
	s := &c.state
	if s.Mode.ResultShown() && s.LastOperator != domain.OperatorNone && defined(s.CurrentValue) {
		s.CurrentValue = c.compute(s.LastOperator, s.LastOperand, s.CurrentValue, true)
		s.PendingOperand = s.CurrentValue
	}

	if defined(s.PendingOperand) && s.PendingOperator != domain.OperatorNone && defined(s.CurrentValue) {
		c.applyPending()
	}
}

// Clear resets the state to its initial values. The session ID is kept.
func (c *Calculator) Clear() {
	c.state = *domain.NewState(c.state.SessionID)
}

// applyPending computes the pending operation against the display. The
// pending operator stays armed only while an operator is selected; a plain
// "=" consumes it.
func (c *Calculator) applyPending() {
	s := &c.state
	s.LastOperand = s.CurrentValue
	s.LastOperator = s.PendingOperator
	s.CurrentValue = c.compute(s.PendingOperator, s.PendingOperand, s.CurrentValue, false)
	s.PendingOperand = s.CurrentValue

	if s.Mode.OperatorSelected() {
		s.Mode = domain.ModeChained
		return
	}
	s.PendingOperator = domain.OperatorNone
	s.Mode = domain.ModeComputed
}

func (c *Calculator) compute(op domain.Operator, a, b string, repeat bool) string {
	res := Calculate(op, a, b)
	if c.observer != nil {
		c.observer(domain.Computation{Operator: op, Left: a, Right: b, Result: res, Repeat: repeat})
	}
	return res.String()
}

// startNumber switches to entering a fresh number, which forgets the last
// operation: "=" no longer replays it.
func (c *Calculator) startNumber() {
	c.state.Mode = domain.ModeEntering
	c.state.LastOperand = ""
	c.state.LastOperator = domain.OperatorNone
}

// defined reports whether an operand can take part in a calculation.
func defined(v string) bool {
	return v != "" && v != domain.NotANumber
}
