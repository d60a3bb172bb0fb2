package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/ports"
)

// MockStore is a map-backed GraphStore used to check the contract suite itself.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.Graph
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.Graph)}
}

func (m *MockStore) Save(_ context.Context, sessionID string, g domain.Graph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = g.Clone()
	return nil
}

func (m *MockStore) Load(_ context.Context, sessionID string) (domain.Graph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.data[sessionID]
	if !ok {
		return domain.Graph{}, domain.ErrSessionNotFound
	}
	return g.Clone(), nil
}

func (m *MockStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestGraphStore_Contract(t *testing.T) {
	ports.RunGraphStoreContract(t, NewMockStore())
}
