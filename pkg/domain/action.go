package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// ActionKind identifies one of the five user actions of the calculator.
type ActionKind string

const (
	ActionDigit    ActionKind = "digit"
	ActionDecimal  ActionKind = "decimal"
	ActionOperator ActionKind = "operator"
	ActionEquals   ActionKind = "equals"
	ActionClear    ActionKind = "clear"
)

// Action is a discrete keypad event fed into the state machine.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Digit    string     `json:"digit,omitempty"`
	Operator Operator   `json:"operator,omitempty"`
}

// Digit builds a digit action.
func Digit(d string) Action { return Action{Kind: ActionDigit, Digit: d} }

// Decimal builds a decimal-point action.
func Decimal() Action { return Action{Kind: ActionDecimal} }

// Press builds an operator action.
func Press(op Operator) Action { return Action{Kind: ActionOperator, Operator: op} }

// Equals builds an "=" action.
func Equals() Action { return Action{Kind: ActionEquals} }

// Clear builds a clear action.
func Clear() Action { return Action{Kind: ActionClear} }

// Key returns the keypad token for the action.
func (a Action) Key() string {
	switch a.Kind {
	case ActionDigit:
		return a.Digit
	case ActionDecimal:
		return "."
	case ActionOperator:
		return string(a.Operator)
	case ActionEquals:
		return "="
	case ActionClear:
		return "C"
	}
	return "?"
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%s)", a.Kind, a.Key())
}

// IsDigit reports whether s is a single decimal digit.
func IsDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

// ParseAction maps a keypad token to an Action.
func ParseAction(token string) (Action, error) {
	switch t := strings.TrimSpace(token); {
	case IsDigit(t):
		return Digit(t), nil
	case t == "." || t == ",":
		return Decimal(), nil
	case t == "=" || strings.EqualFold(t, "enter"):
		return Equals(), nil
	case strings.EqualFold(t, "c") || strings.EqualFold(t, "ac") || strings.EqualFold(t, "clear"):
		return Clear(), nil
	default:
		op, err := ParseOperator(t)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownKey, token)
		}
		return Press(op), nil
	}
}

// ParseActions maps a sequence of keypad tokens, stopping at the first unknown one.
func ParseActions(tokens []string) ([]Action, error) {
	actions := make([]Action, 0, len(tokens))
	for _, t := range tokens {
		a, err := ParseAction(t)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Tokenize splits a typed line such as "12.5*3=" or "1 + 2 =" into keypad tokens.
// Whitespace separates nothing but is ignored; words ("clear", "enter") are kept whole.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsLetter(r) && r != 'x' && r != 'X':
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if _, err := ParseAction(word); err != nil {
				return nil, err
			}
			tokens = append(tokens, word)
			i = j - 1
		default:
			tok := string(r)
			if _, err := ParseAction(tok); err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}
