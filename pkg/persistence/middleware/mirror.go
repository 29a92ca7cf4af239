package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
)

type mirrorMiddleware struct {
	next   ports.SessionStore
	mirror ports.SessionStore
	logger *slog.Logger
}

// NewMirrorMiddleware copies every write to a secondary store. Reads only hit
// the primary store, and mirror failures are logged, never returned.
func NewMirrorMiddleware(mirror ports.SessionStore, logger *slog.Logger) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &mirrorMiddleware{next: next, mirror: mirror, logger: logger}
	}
}

func (m *mirrorMiddleware) Save(ctx context.Context, identity string, session *domain.Session) error {
	if err := m.next.Save(ctx, identity, session); err != nil {
		return err
	}
	if err := m.mirror.Save(ctx, identity, session); err != nil {
		m.logger.Warn("session mirror save failed", "identity", identity, "err", err)
	}
	return nil
}

func (m *mirrorMiddleware) Load(ctx context.Context, identity string) (*domain.Session, error) {
	return m.next.Load(ctx, identity)
}

func (m *mirrorMiddleware) Delete(ctx context.Context, identity string) error {
	if err := m.next.Delete(ctx, identity); err != nil {
		return err
	}
	if err := m.mirror.Delete(ctx, identity); err != nil {
		m.logger.Warn("session mirror delete failed", "identity", identity, "err", err)
	}
	return nil
}

func (m *mirrorMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
