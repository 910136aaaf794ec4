package domain

import "fmt"

// Operator is one of the four binary operators supported by the calculator.
type Operator string

const (
	OperatorNone     Operator = "" // No operator pending
	OperatorAdd      Operator = "+"
	OperatorSubtract Operator = "-"
	OperatorMultiply Operator = "*"
	OperatorDivide   Operator = "/"
)

// Operators lists the valid operators in keypad order.
var Operators = []Operator{OperatorAdd, OperatorSubtract, OperatorMultiply, OperatorDivide}

// ParseOperator converts a keypad symbol into an Operator.
// Besides the canonical symbols it accepts "x", "×" and "÷".
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+":
		return OperatorAdd, nil
	case "-", "−":
		return OperatorSubtract, nil
	case "*", "x", "X", "×":
		return OperatorMultiply, nil
	case "/", "÷":
		return OperatorDivide, nil
	}
	return OperatorNone, fmt.Errorf("%w: %q", ErrInvalidOperator, s)
}

// Valid reports whether o is one of the four operators.
func (o Operator) Valid() bool {
	switch o {
	case OperatorAdd, OperatorSubtract, OperatorMultiply, OperatorDivide:
		return true
	}
	return false
}

// Apply evaluates a o b using IEEE-754 semantics.
// Division by zero yields an infinity; callers decide how to present it.
func (o Operator) Apply(a, b float64) float64 {
	switch o {
	case OperatorAdd:
		return a + b
	case OperatorSubtract:
		return a - b
	case OperatorMultiply:
		return a * b
	case OperatorDivide:
		return a / b
	}
	panic(fmt.Sprintf("domain: apply on invalid operator %q", string(o)))
}

// Name returns a human readable name, used for metric labels and logs.
func (o Operator) Name() string {
	switch o {
	case OperatorAdd:
		return "add"
	case OperatorSubtract:
		return "subtract"
	case OperatorMultiply:
		return "multiply"
	case OperatorDivide:
		return "divide"
	case OperatorNone:
		return "none"
	}
	return "invalid"
}
