package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/ussdsim/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDial: func(ctx context.Context, e *domain.DialEvent) {
			logger.InfoContext(ctx, "dial",
				"session_id", e.SessionID,
				"code", e.DialCode,
				"operator", e.Operator,
				"known", e.Known,
				"is_menu", e.IsMenu,
			)
		},
		OnSelect: func(ctx context.Context, e *domain.SelectEvent) {
			logger.InfoContext(ctx, "select",
				"session_id", e.SessionID,
				"key", e.Key,
				"kind", e.Kind,
				"depth", e.Depth,
			)
		},
		OnEnd: func(ctx context.Context, e *domain.EndEvent) {
			logger.InfoContext(ctx, "session_end",
				"session_id", e.SessionID,
				"reason", e.Reason,
				"depth", e.Depth,
				"duration", e.Duration,
			)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.WarnContext(ctx, "rejected",
				"session_id", e.SessionID,
				"op", e.Op,
				"err", e.Err,
			)
		},
	}
}
