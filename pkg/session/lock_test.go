package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/tendero/pkg/domain"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, identity string, s *domain.Session) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, identity string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}
func (m *MockStore) Delete(ctx context.Context, identity string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)        { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("identity-%d", i)
		_ = mgr.WithLock(ctx, id, func(ctx context.Context) error {
			if err := mgr.Put(ctx, id, domain.NewSession()); err != nil {
				return err
			}
			return mgr.Clear(ctx, id)
		})
	}

	lockCount := len(mgr.locks)
	t.Logf("Identities: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory", lockCount)
	}
}
