package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tendero/internal/config"
	"github.com/aretw0/tendero/internal/logging"
	"github.com/aretw0/tendero/internal/runtime"
	"github.com/aretw0/tendero/pkg/adapters/file"
	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/adapters/postgres"
	"github.com/aretw0/tendero/pkg/adapters/redis"
	"github.com/aretw0/tendero/pkg/adapters/sqlite"
	"github.com/aretw0/tendero/pkg/observability"
	"github.com/aretw0/tendero/pkg/persistence/middleware"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/aretw0/tendero/pkg/runner"
	"github.com/aretw0/tendero/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// LedgerBackend is what every ledger driver provides.
type LedgerBackend interface {
	ports.Ledger
	ports.AccountRegistry
}

// App is the wired object graph of a tendero process.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Engine     *runtime.Engine
	Store      ports.SessionStore
	Sessions   *session.Manager
	Ledger     LedgerBackend
	Dispatcher *runner.Dispatcher
	Metrics    *prometheus.Registry

	closers []func() error
}

// NewApp builds the stack described by cfg. Callers must Close it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format),
		Metrics: prometheus.NewRegistry(),
	}
	app.Metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, locker, err := app.openSessionStore()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	ledger, err := app.openLedger(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Ledger = ledger

	hooks := observability.Merge(
		observability.NewMetrics(app.Metrics).Hooks(),
		observability.AuditHooks(app.Logger),
	)

	app.Engine = runtime.NewEngine(
		runtime.WithLogger(app.Logger),
		runtime.WithLifecycleHooks(hooks),
	)

	sessionOpts := []session.Option{
		session.WithLogger(app.Logger),
		session.WithIdleTimeout(cfg.Session.IdleTimeout),
		session.WithLockTTL(cfg.Session.LockTTL),
	}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}
	app.Sessions = session.NewManager(app.Store, sessionOpts...)

	dispatcherOpts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithLifecycleHooks(hooks),
		runner.WithCommitTimeout(cfg.CommitTimeout),
	}
	if !cfg.Auth.Open {
		dispatcherOpts = append(dispatcherOpts, runner.WithRegistry(app.Ledger))
	}
	app.Dispatcher = runner.NewDispatcher(app.Engine, app.Sessions, app.Ledger, dispatcherOpts...)

	app.Logger.Debug("app ready",
		"session_store", cfg.Session.Store,
		"ledger", cfg.Ledger.Driver,
		"auth_open", cfg.Auth.Open,
	)
	return app, nil
}

// openSessionStore builds the session store and, for redis, its locker.
func (a *App) openSessionStore() (ports.SessionStore, ports.DistributedLocker, error) {
	cfg := a.Config.Session

	var (
		store  ports.SessionStore
		locker ports.DistributedLocker
	)
	switch cfg.Store {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.Dir)
	case config.StoreRedis:
		rc := a.Config.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		a.closers = append(a.closers, rs.Close)
		store = rs
		locker = redis.NewLocker(rs.Client(), rc.Prefix)
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}

	var mws []middleware.Middleware
	if cfg.MirrorDir != "" {
		mirror := middleware.Chain(file.New(cfg.MirrorDir), middleware.NewRedactionMiddleware(middleware.DefaultRedactedFields))
		mws = append(mws, middleware.NewMirrorMiddleware(mirror, a.Logger))
	}
	if cfg.EncryptionKey != "" {
		keys, err := middleware.ParseKeys(cfg.EncryptionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid session.encryption_key: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(keys))
	}
	return middleware.Chain(store, mws...), locker, nil
}

func (a *App) openLedger(ctx context.Context) (LedgerBackend, error) {
	cfg := a.Config.Ledger

	switch cfg.Driver {
	case config.DriverMemory:
		a.Logger.Warn("using the in-memory ledger: sales are lost on exit")
		return memory.NewLedger(), nil
	case config.DriverSQLite:
		l, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, l.Close)
		if err := l.Migrate(ctx); err != nil {
			return nil, err
		}
		return l, nil
	case config.DriverPostgres:
		l, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { l.Close(); return nil })
		if err := l.RunMigrations(ctx); err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
}

// Close releases backends in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
