package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tendero/pkg/domain"
)

// AuditHooks logs transitions and rejected inputs at debug level.
// Inputs are never logged; they may carry client names. Commits are logged by
// the dispatcher that performs them, so OnCommit is left unset.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition",
				"identity", e.Identity,
				"from", e.From,
				"to", e.To,
				"effect", e.Effect,
			)
		},
		OnRejected: func(ctx context.Context, e *domain.RejectionEvent) {
			logger.Debug("input_rejected",
				"identity", e.Identity,
				"state", e.State,
				"reason", e.Reason,
			)
		},
	}
}

// Merge combines hooks so each event reaches every non-nil callback in order.
func Merge(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range all {
		if h.OnTransition != nil {
			prev, next := out.OnTransition, h.OnTransition
			out.OnTransition = func(ctx context.Context, e *domain.TransitionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnRejected != nil {
			prev, next := out.OnRejected, h.OnRejected
			out.OnRejected = func(ctx context.Context, e *domain.RejectionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnCommit != nil {
			prev, next := out.OnCommit, h.OnCommit
			out.OnCommit = func(ctx context.Context, e *domain.CommitEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
