package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// MockStore is an in-memory implementation of SessionStore for testing purposes.
type MockStore struct {
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	m.data[sessionID] = session.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSessionStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewMockStore())
}
