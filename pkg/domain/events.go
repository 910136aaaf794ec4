package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAction  EventType = "action"
	EventCompute EventType = "compute"
	EventClear   EventType = "clear"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// ActionEvent is emitted after an action has been applied to a state.
type ActionEvent struct {
	EventBase
	Action  Action `json:"action"`
	Display string `json:"display"`
	Mode    Mode   `json:"mode"`
}

// ComputeEvent is emitted for every arithmetic step, including repeated "=".
type ComputeEvent struct {
	EventBase
	Computation
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnAction  func(context.Context, *ActionEvent)
	OnCompute func(context.Context, *ComputeEvent)
	OnClear   func(context.Context, *EventBase)
}
