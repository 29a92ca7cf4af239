package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/aretw0/tendero/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]domain.Session
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, identity string, sess *domain.Session) error {
	time.Sleep(time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]domain.Session)
	}
	s.data[identity] = sess.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, identity string) (*domain.Session, error) {
	time.Sleep(time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.data[identity]; ok {
		c := sess.Clone()
		return &c, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, identity)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_LockingSerializesReadModifyWrite(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	concurrentWrites := 20

	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				s, err := manager.Get(ctx, id)
				if err != nil {
					return err
				}
				if s.Draft == nil {
					s.Draft = domain.NewDraft("draft", time.Now())
				}
				s.State = domain.StateAwaitingProductAction
				s.Draft.LineItems = append(s.Draft.LineItems, domain.LineItem{Description: "x"})
				return manager.Put(ctx, id, s)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := manager.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, s.Draft)
	assert.Len(t, s.Draft.LineItems, concurrentWrites, "lost updates")
}

func TestManager_GetDefaultsToInitial(t *testing.T) {
	manager := session.NewManager(memory.NewStore())

	s, err := manager.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.NewSession(), s)
}

func TestManager_GetNormalizesEmptyState(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), "id", &domain.Session{}))

	s, err := session.NewManager(store).Get(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, domain.StateInitial, s.State)
}

func TestManager_PutStampsUpdatedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	manager := session.NewManager(store, session.WithClock(func() time.Time { return now }))

	require.NoError(t, manager.Put(context.Background(), "id", domain.Session{State: domain.StateAwaitingClientName}))

	stored, err := store.Load(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, now, stored.UpdatedAt)
	assert.Equal(t, domain.StateAwaitingClientName, stored.State)
}

func TestManager_IdleExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	manager := session.NewManager(store,
		session.WithClock(func() time.Time { return now }),
		session.WithIdleTimeout(30*time.Minute),
	)
	ctx := context.Background()

	require.NoError(t, manager.Put(ctx, "id", domain.Session{State: domain.StateAwaitingDescription}))

	now = now.Add(29 * time.Minute)
	s, err := manager.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingDescription, s.State)

	now = now.Add(2 * time.Minute)
	s, err = manager.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, domain.NewSession(), s)

	_, err = store.Load(ctx, "id")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_ClearAndList(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, manager.Put(ctx, "b", domain.Session{State: domain.StateAwaitingClientName}))
	require.NoError(t, manager.Put(ctx, "a", domain.Session{State: domain.StateAwaitingClientName}))

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, manager.Clear(ctx, "a"))
	require.NoError(t, manager.Clear(ctx, "a"))

	ids, err = manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

type recordingLocker struct {
	mu      sync.Mutex
	calls   []string
	lockErr error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.calls = append(l.calls, "lock:"+key)
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.calls = append(l.calls, "unlock:"+key)
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	ran := false
	err := manager.WithLock(context.Background(), "id", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"lock:id", "unlock:id"}, locker.calls)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	locker := &recordingLocker{lockErr: errors.New("redis down")}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	err := manager.WithLock(context.Background(), "id", func(ctx context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorContains(t, err, "redis down")
}
