package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

var (
	// ErrInvalidDigit is returned when EnterValue receives anything other than "0".."9".
	ErrInvalidDigit = errors.New("invalid digit")

	// ErrInvalidOperator is returned for operator tokens outside the four supported ones.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrUnknownKey is returned when a keypad token cannot be mapped to an action.
	ErrUnknownKey = errors.New("unknown key")

	// ErrInvalidState is returned when a restored snapshot violates the state invariants.
	ErrInvalidState = errors.New("invalid state")
)
