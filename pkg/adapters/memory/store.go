package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/flowboard/pkg/domain"
)

// Store implements ports.GraphStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Graph
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Graph),
	}
}

// Save keeps a deep copy of g so later edits to the live graph do not leak in.
func (s *Store) Save(ctx context.Context, sessionID string, g domain.Graph) error {
	c := g.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = c
	return nil
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.data[sessionID]
	if !ok {
		return domain.Graph{}, domain.ErrSessionNotFound
	}
	return g.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
