package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentValue    *string   `json:"current_value,omitempty"`
	PendingOperand  *string   `json:"pending_operand,omitempty"`
	PendingOperator *Operator `json:"pending_operator,omitempty"`
	LastOperand     *string   `json:"last_operand,omitempty"`
	LastOperator    *Operator `json:"last_operator,omitempty"`
	Mode            *Mode     `json:"mode,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	if oldState == nil {
		oldState = &State{}
		// Force the display and mode out even when they look like zero values.
		diff.CurrentValue = &newState.CurrentValue
		diff.Mode = &newState.Mode
	}

	if oldState.CurrentValue != newState.CurrentValue {
		diff.CurrentValue = &newState.CurrentValue
	}
	// Cleared fields are sent as empty strings so clients can drop them.
	if oldState.PendingOperand != newState.PendingOperand {
		diff.PendingOperand = &newState.PendingOperand
	}
	if oldState.PendingOperator != newState.PendingOperator {
		diff.PendingOperator = &newState.PendingOperator
	}
	if oldState.LastOperand != newState.LastOperand {
		diff.LastOperand = &newState.LastOperand
	}
	if oldState.LastOperator != newState.LastOperator {
		diff.LastOperator = &newState.LastOperator
	}
	if oldState.Mode != newState.Mode {
		diff.Mode = &newState.Mode
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentValue == nil &&
		d.PendingOperand == nil &&
		d.PendingOperator == nil &&
		d.LastOperand == nil &&
		d.LastOperator == nil &&
		d.Mode == nil
}
