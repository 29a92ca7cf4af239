package domain

import (
	"context"
	"time"
)

// TransitionEvent describes one accepted step of the flow.
type TransitionEvent struct {
	Identity string
	From     StateID
	To       StateID
	Effect   Effect
}

// RejectionEvent describes an input that failed validation (self-loop).
type RejectionEvent struct {
	Identity string
	State    StateID
	Reason   error
}

// CommitEvent describes a call to the Ledger.
type CommitEvent struct {
	Identity string
	DraftID  string
	SaleID   string
	Total    float64
	Duration time.Duration
	Err      error
}

// LifecycleHooks defines callbacks for observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnRejected   func(context.Context, *RejectionEvent)
	OnCommit     func(context.Context, *CommitEvent)
}
