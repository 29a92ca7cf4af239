package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/tendero/internal/logging"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/oklog/ulid/v2"
)

// Engine is the sales-flow state machine.
// It is pure with respect to the session it receives: every Step works on a
// deep copy and returns the next session instead of mutating the input.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
	newID  func() string

	handlers map[domain.StateID]handler
}

// handler applies one input to a working copy of the session.
// A *rejection error turns the step into a self-loop.
type handler func(e *Engine, s *domain.Session, input string) (outcome, error)

// outcome is what a handler produces for an accepted input.
type outcome struct {
	messages []string
	effect   domain.Effect
	account  *domain.Account
}

func reply(messages ...string) outcome {
	return outcome{messages: messages}
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the time source used to stamp drafts and accounts.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides the draft ID generator.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = map[domain.StateID]handler{
		domain.StateInitial:               (*Engine).handleInitial,
		domain.StateAwaitingClientName:    (*Engine).handleClientName,
		domain.StateAwaitingDescription:   (*Engine).handleDescription,
		domain.StateAwaitingUnitType:      (*Engine).handleUnitType,
		domain.StateAwaitingQuantity:      (*Engine).handleQuantity,
		domain.StateAwaitingPrice:         (*Engine).handlePrice,
		domain.StateAwaitingProductAction: (*Engine).handleProductAction,
		domain.StateEditingCart:           (*Engine).handleEditingCart,
		domain.StateAwaitingPayment:       (*Engine).handlePaymentMethod,
		domain.StateConfirming:            (*Engine).handleConfirming,
	}
	return e
}

// Step feeds one message of an authorized identity to the sales flow.
// The only error it returns is domain.ErrUnknownState; invalid input is a
// self-loop reported through StepResult.Rejected.
func (e *Engine) Step(ctx context.Context, identity string, current domain.Session, input string) (domain.StepResult, error) {
	base := current.Clone()
	if base.State == "" {
		base.State = domain.StateInitial
	}
	if base.State.IsRegistration() {
		// The identity got authorized while registering.
		e.logger.Info("abandoning registration for authorized identity", "identity", identity)
		base = domain.NewSession()
	}
	base.Registration = nil

	h, ok := e.handlers[base.State]
	if !ok {
		return domain.StepResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownState, base.State)
	}

	working := base.Clone()
	if working.State != domain.StateInitial {
		e.ensureDraft(identity, &working)
	}
	return e.apply(ctx, identity, base, working, strings.TrimSpace(input), h)
}

// apply runs a handler and converts its outcome into a StepResult.
// A rejected input yields base unchanged.
func (e *Engine) apply(ctx context.Context, identity string, base, working domain.Session, input string, h handler) (domain.StepResult, error) {
	from := working.State

	out, err := h(e, &working, input)
	if err != nil {
		var rej *rejection
		if !errors.As(err, &rej) {
			return domain.StepResult{}, err
		}
		e.logger.Debug("input rejected", "identity", identity, "state", from, "reason", rej.reason)
		e.emitRejected(ctx, identity, from, rej.reason)
		return domain.StepResult{
			Session:  base,
			Messages: []string{rej.message},
			Rejected: true,
		}, nil
	}

	result := domain.StepResult{
		Session:  working,
		Messages: out.messages,
		Effect:   out.effect,
	}

	switch out.effect {
	case domain.EffectCommit:
		d := working.Draft.Clone()
		d.Total = d.ComputeTotal()
		result.Draft = &d
		result.Session = domain.NewSession()
	case domain.EffectDiscard:
		result.Session = domain.NewSession()
	case domain.EffectRegister:
		result.Account = out.account
		result.Session = domain.NewSession()
	}

	e.logger.Debug("transition", "identity", identity, "from", from, "to", result.Session.State, "effect", out.effect)
	e.emitTransition(ctx, identity, from, result.Session.State, out.effect)
	return result, nil
}

// ensureDraft re-synthesizes a draft lost between steps.
func (e *Engine) ensureDraft(identity string, s *domain.Session) {
	if s.Draft == nil {
		e.logger.Warn("session without draft, starting an empty one", "identity", identity, "state", s.State)
		s.Draft = domain.NewDraft(e.newID(), e.now())
	}
	switch s.State {
	case domain.StateAwaitingUnitType, domain.StateAwaitingQuantity, domain.StateAwaitingPrice:
		if s.Draft.Pending == nil {
			e.logger.Warn("session without pending item, starting an empty one", "identity", identity, "state", s.State)
			s.Draft.Pending = &domain.LineItem{}
		}
	}
}

func (e *Engine) emitTransition(ctx context.Context, identity string, from, to domain.StateID, effect domain.Effect) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		Identity: identity,
		From:     from,
		To:       to,
		Effect:   effect,
	})
}

func (e *Engine) emitRejected(ctx context.Context, identity string, state domain.StateID, reason error) {
	if e.hooks.OnRejected == nil {
		return
	}
	e.hooks.OnRejected(ctx, &domain.RejectionEvent{
		Identity: identity,
		State:    state,
		Reason:   reason,
	})
}

// rejection marks an input that failed validation.
type rejection struct {
	reason  error
	message string
}

func (r *rejection) Error() string {
	return r.reason.Error()
}

func (r *rejection) Unwrap() error {
	return r.reason
}

func reject(reason error, message string) error {
	return &rejection{reason: reason, message: message}
}
