package middleware_test

import (
	"context"
	"errors"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string]*domain.Session
	err  error
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (s *MockStore) Save(ctx context.Context, identity string, session *domain.Session) error {
	if s.err != nil {
		return s.err
	}
	s.data[identity] = session
	return nil
}

func (s *MockStore) Load(ctx context.Context, identity string) (*domain.Session, error) {
	session, ok := s.data[identity]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *MockStore) Delete(ctx context.Context, identity string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.data, identity)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var errBroken = errors.New("disk on fire")

var _ ports.SessionStore = (*MockStore)(nil)
