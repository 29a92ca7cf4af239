package tendero

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/tendero/internal/runtime"
	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/aretw0/tendero/pkg/runner"
	"github.com/aretw0/tendero/pkg/session"
)

// Engine is the high-level entry point for embedding tendero in a host.
// It wires the flow, a session store and a ledger behind a simplified API.
type Engine struct {
	runtime    *runtime.Engine
	sessions   *session.Manager
	dispatcher *runner.Dispatcher

	store       ports.SessionStore
	ledger      ports.Ledger
	registry    ports.AccountRegistry
	locker      ports.DistributedLocker
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	sessionOpts []session.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSessionStore sets where conversations in progress are kept
// (default: in memory).
func WithSessionStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLedger sets where confirmed sales are recorded (default: in memory).
func WithLedger(ledger ports.Ledger) Option {
	return func(e *Engine) {
		e.ledger = ledger
	}
}

// WithRegistry gates the sales flow behind account registration. Without it
// every identity may sell.
func WithRegistry(registry ports.AccountRegistry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithLocker serializes each identity across processes sharing the store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithSessionOptions passes options through to the session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, opts...)
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil down, which would overwrite their defaults)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.ledger == nil {
		eng.ledger = memory.NewLedger()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, append(sessionOpts, eng.sessionOpts...)...)

	dispatcherOpts := []runner.Option{
		runner.WithLogger(eng.logger),
		runner.WithLifecycleHooks(eng.hooks),
	}
	if eng.registry != nil {
		dispatcherOpts = append(dispatcherOpts, runner.WithRegistry(eng.registry))
	}
	eng.dispatcher = runner.NewDispatcher(eng.runtime, eng.sessions, eng.ledger, dispatcherOpts...)

	return eng
}

// Handle processes one inbound message and returns the replies to send back,
// in order.
func (e *Engine) Handle(ctx context.Context, identity, text string) ([]string, error) {
	return e.dispatcher.Handle(ctx, runner.Inbound{Identity: identity, Text: text})
}

// Prompt returns what the identity is currently being asked.
func (e *Engine) Prompt(ctx context.Context, identity string) (string, error) {
	return e.dispatcher.Prompt(ctx, identity)
}

// Reset discards the conversation in progress of identity.
func (e *Engine) Reset(ctx context.Context, identity string) error {
	return e.dispatcher.Reset(ctx, identity)
}

// Step applies input to a session without touching any store. The host is
// responsible for performing the returned effect.
func (e *Engine) Step(ctx context.Context, identity string, current domain.Session, input string) (domain.StepResult, error) {
	return e.runtime.Step(ctx, identity, current, input)
}

// States returns the transition graph for visualization or introspection tools.
func (e *Engine) States() []domain.Edge {
	return e.runtime.States()
}

// Dispatcher returns the dispatcher, for transports that take one.
func (e *Engine) Dispatcher() *runner.Dispatcher {
	return e.dispatcher
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
