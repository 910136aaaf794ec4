package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
)

// CombineHooks fans every event out to each hook set, in order.
func CombineHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			for _, h := range sets {
				if h.OnAction != nil {
					h.OnAction(ctx, e)
				}
			}
		},
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			for _, h := range sets {
				if h.OnCompute != nil {
					h.OnCompute(ctx, e)
				}
			}
		},
		OnClear: func(ctx context.Context, e *domain.EventBase) {
			for _, h := range sets {
				if h.OnClear != nil {
					h.OnClear(ctx, e)
				}
			}
		},
	}
}

// LogHooks writes one debug line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "action",
				"session_id", e.SessionID,
				"key", e.Action.Key(),
				"display", e.Display,
				"mode", e.Mode,
			)
		},
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			logger.DebugContext(ctx, "compute",
				"session_id", e.SessionID,
				"operator", e.Operator,
				"left", e.Left,
				"right", e.Right,
				"result", e.Result.String(),
				"repeat", e.Repeat,
			)
		},
		OnClear: func(ctx context.Context, e *domain.EventBase) {
			logger.DebugContext(ctx, "clear", "session_id", e.SessionID)
		},
	}
}
