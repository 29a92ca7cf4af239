package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tendero/internal/logging"
	"github.com/aretw0/tendero/internal/runtime"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/aretw0/tendero/pkg/session"
)

// DefaultCommitTimeout bounds a single Ledger.Commit call.
const DefaultCommitTimeout = 10 * time.Second

var (
	// ErrEmptyIdentity is returned when an inbound message carries no identity.
	ErrEmptyIdentity = errors.New("empty identity")
	// ErrStepPanic wraps a panic recovered while handling a message.
	ErrStepPanic = errors.New("panic while handling message")
)

// Inbound is one message received from a transport.
type Inbound struct {
	Identity string `json:"identity"`
	Text     string `json:"text"`
}

// Dispatcher routes inbound messages through the engine and performs the
// resulting effects. It is safe for concurrent use; messages of the same
// identity are serialized by the session manager's lock.
type Dispatcher struct {
	engine   *runtime.Engine
	sessions *session.Manager
	ledger   ports.Ledger
	registry ports.AccountRegistry

	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	commitTimeout time.Duration
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithRegistry gates the sales flow behind an account registry. Without one
// every identity is authorized and the registration sub-flow is never run.
func WithRegistry(registry ports.AccountRegistry) Option {
	return func(d *Dispatcher) {
		d.registry = registry
	}
}

// WithLogger sets a structured logger for the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Only OnCommit is emitted
// by the dispatcher; transition hooks belong to the engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithCommitTimeout bounds each Ledger.Commit call.
func WithCommitTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.commitTimeout = timeout
	}
}

// NewDispatcher wires the engine to its session manager and ledger.
func NewDispatcher(engine *runtime.Engine, sessions *session.Manager, ledger ports.Ledger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine:        engine,
		sessions:      sessions,
		ledger:        ledger,
		logger:        logging.NewNop(),
		commitTimeout: DefaultCommitTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes one inbound message and returns the replies to send back,
// in order. Failures of the flow itself are reported to the user as a generic
// error reply; Handle only returns an error for an empty identity or when ctx
// is done.
func (d *Dispatcher) Handle(ctx context.Context, in Inbound) ([]string, error) {
	if in.Identity == "" {
		return nil, ErrEmptyIdentity
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := SanitizeInput(in.Text)
	if err != nil {
		d.logger.Warn("inbound message rejected", "identity", in.Identity, "err", err)
		return []string{runtime.MessageGenericError}, nil
	}

	var replies []string
	err = d.sessions.WithLock(ctx, in.Identity, func(ctx context.Context) error {
		var stepErr error
		replies, stepErr = d.handleLocked(ctx, in.Identity, text)
		return stepErr
	})
	if err == nil {
		return replies, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	d.logger.Error("failed to handle message", "identity", in.Identity, "err", err)
	// Start over rather than leave the identity stuck on a broken session.
	if clearErr := d.sessions.Clear(context.WithoutCancel(ctx), in.Identity); clearErr != nil {
		d.logger.Warn("failed to clear session after error", "identity", in.Identity, "err", clearErr)
	}
	return []string{runtime.MessageGenericError}, nil
}

// handleLocked runs under the identity's lock.
func (d *Dispatcher) handleLocked(ctx context.Context, identity, text string) (replies []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStepPanic, r)
		}
	}()

	current, err := d.sessions.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	var res domain.StepResult
	if d.authorized(ctx, identity) {
		res, err = d.engine.Step(ctx, identity, current, text)
	} else {
		res, err = d.engine.StepRegistration(ctx, identity, current, text)
	}
	if err != nil {
		return nil, err
	}

	replies = res.Messages
	switch res.Effect {
	case domain.EffectCommit:
		if res.Draft == nil {
			return nil, fmt.Errorf("commit effect without draft in state %s", current.State)
		}
		replies = append(replies, runtime.Outcome(domain.EffectCommit, d.commit(ctx, identity, *res.Draft)))
		d.clear(ctx, identity)
	case domain.EffectRegister:
		if res.Account == nil || d.registry == nil {
			return nil, fmt.Errorf("register effect without account or registry in state %s", current.State)
		}
		regErr := d.registry.Register(ctx, *res.Account)
		if regErr != nil {
			d.logger.Error("failed to register account", "identity", identity, "err", regErr)
		} else {
			d.logger.Info("account registered", "identity", identity, "business", res.Account.BusinessName)
		}
		replies = append(replies, runtime.Outcome(domain.EffectRegister, regErr))
		d.clear(ctx, identity)
	case domain.EffectDiscard:
		d.clear(ctx, identity)
	default:
		if isPristine(res.Session) {
			// INITIAL without data is the same as no session at all.
			d.clear(ctx, identity)
			break
		}
		if err := d.sessions.Put(ctx, identity, res.Session); err != nil {
			return nil, err
		}
	}
	return replies, nil
}

// commit hands the draft to the ledger under the commit timeout.
func (d *Dispatcher) commit(ctx context.Context, identity string, draft domain.Draft) error {
	cctx, cancel := context.WithTimeout(ctx, d.commitTimeout)
	defer cancel()

	start := time.Now()
	saleID, err := d.ledger.Commit(cctx, identity, draft)
	event := &domain.CommitEvent{
		Identity: identity,
		DraftID:  draft.ID,
		SaleID:   saleID,
		Total:    draft.Total,
		Duration: time.Since(start),
		Err:      err,
	}
	if d.hooks.OnCommit != nil {
		d.hooks.OnCommit(ctx, event)
	}

	if err != nil {
		d.logger.Error("failed to commit sale", "identity", identity, "draft_id", draft.ID, "err", err)
		return err
	}
	d.logger.Info("sale committed",
		"identity", identity,
		"draft_id", draft.ID,
		"sale_id", saleID,
		"items", len(draft.LineItems),
		"total", draft.Total,
	)
	return nil
}

// authorized consults the registry. A registry failure counts as not
// authorized.
func (d *Dispatcher) authorized(ctx context.Context, identity string) bool {
	if d.registry == nil {
		return true
	}
	ok, err := d.registry.IsAuthorized(ctx, identity)
	if err != nil {
		d.logger.Warn("authorization check failed", "identity", identity, "err", err)
		return false
	}
	return ok
}

// clear removes the session once its effect is done. The effect already
// happened, so a failure here is logged instead of reported.
func (d *Dispatcher) clear(ctx context.Context, identity string) {
	if err := d.sessions.Clear(context.WithoutCancel(ctx), identity); err != nil {
		d.logger.Warn("failed to clear session", "identity", identity, "err", err)
	}
}

// Prompt returns the question the identity is currently being asked.
func (d *Dispatcher) Prompt(ctx context.Context, identity string) (string, error) {
	current, err := d.sessions.Get(ctx, identity)
	if err != nil {
		return "", err
	}
	if !d.authorized(ctx, identity) {
		return d.engine.PromptRegistration(current), nil
	}
	return d.engine.Prompt(current), nil
}

// Reset discards the session of an identity.
func (d *Dispatcher) Reset(ctx context.Context, identity string) error {
	if identity == "" {
		return ErrEmptyIdentity
	}
	return d.sessions.WithLock(ctx, identity, func(ctx context.Context) error {
		return d.sessions.Clear(ctx, identity)
	})
}

func isPristine(s domain.Session) bool {
	return s.State == domain.StateInitial && s.Draft == nil && s.Registration == nil
}
