package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/google/uuid"
)

// Listener receives store events. Listeners run outside the store lock and may call back into the store;
// events caused by such calls are delivered after the current event reaches every listener.
type Listener func(domain.Event)

type subscriber struct {
	id int
	fn Listener
}

// Store is the in-memory graph of one editing session.
type Store struct {
	mu     sync.Mutex
	nodes  []domain.Node
	edges  []domain.Edge
	issued map[string]struct{}

	subs       []subscriber
	nextSub    int
	pending    []domain.Event
	delivering bool

	suffix func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithSuffixGenerator replaces the random id suffix source. Intended for tests.
func WithSuffixGenerator(fn func() string) Option {
	return func(s *Store) {
		s.suffix = fn
	}
}

// WithClock replaces the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger that reports failing listeners.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		issued: make(map[string]struct{}),
		suffix: uuid.NewString,
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh node id of the form "<nodeType>-<suffix>".
// Issued ids are remembered so that no id is handed out twice in the life of the store.
func (s *Store) NewID(nodeType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newIDLocked(nodeType)
}

func (s *Store) newIDLocked(prefix string) string {
	for {
		id := prefix + "-" + s.suffix()
		if _, taken := s.issued[id]; taken {
			continue
		}
		if s.nodeIndex(id) >= 0 || s.edgeIndex(id) >= 0 {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}

// AddNode appends a copy of node. It fails with domain.ErrDuplicateID if a node with the same id exists.
func (s *Store) AddNode(node domain.Node) error {
	if node.ID == "" {
		return fmt.Errorf("add node: empty id")
	}

	s.mu.Lock()
	if s.nodeIndex(node.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("add node %q: %w", node.ID, domain.ErrDuplicateID)
	}
	c := node.Clone()
	if c.Data == nil {
		c.Data = make(map[string]any)
	}
	s.nodes = append(s.nodes, c)
	s.issued[node.ID] = struct{}{}
	s.queue(domain.Event{Type: domain.EventNodeAdded, NodeIDs: []string{node.ID}})
	s.mu.Unlock()

	s.flush()
	return nil
}

// UpdateNodeField sets data[key] = value on the node with the given id.
// A missing node yields domain.ErrNodeNotFound and leaves the graph untouched.
func (s *Store) UpdateNodeField(id, key string, value any) error {
	s.mu.Lock()
	i := s.nodeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("update %q on %q: %w", key, id, domain.ErrNodeNotFound)
	}

	s.nodes[i].Data[key] = value
	s.queue(domain.Event{Type: domain.EventNodeUpdated, NodeIDs: []string{id}, Key: key})
	s.mu.Unlock()

	s.flush()
	return nil
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.nodeIndex(id)
	if i < 0 {
		return domain.Node{}, fmt.Errorf("node %q: %w", id, domain.ErrNodeNotFound)
	}
	return s.nodes[i].Clone(), nil
}

// Edge returns a copy of the edge with the given id.
func (s *Store) Edge(id string) (domain.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.edgeIndex(id)
	if i < 0 {
		return domain.Edge{}, fmt.Errorf("edge %q: %w", id, domain.ErrEdgeNotFound)
	}
	return s.edges[i], nil
}

// Snapshot returns a deep copy of the current graph, in insertion order.
func (s *Store) Snapshot() domain.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := domain.Graph{Nodes: s.nodes, Edges: s.edges}
	return g.Clone()
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes), len(s.edges)
}

// Replace swaps the whole graph, typically with a persisted snapshot.
// Every id in the new graph is marked as issued.
func (s *Store) Replace(g domain.Graph) error {
	seen := make(map[string]struct{}, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		if _, dup := seen[n.ID]; dup || n.ID == "" {
			return fmt.Errorf("replace: node %q: %w", n.ID, domain.ErrDuplicateID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, dup := seen[e.ID]; dup || e.ID == "" {
			return fmt.Errorf("replace: edge %q: %w", e.ID, domain.ErrDuplicateID)
		}
		seen[e.ID] = struct{}{}
	}

	c := g.Clone()
	for i := range c.Nodes {
		if c.Nodes[i].Data == nil {
			c.Nodes[i].Data = make(map[string]any)
		}
	}

	s.mu.Lock()
	s.nodes = c.Nodes
	s.edges = c.Edges
	for id := range seen {
		s.issued[id] = struct{}{}
	}
	s.queue(domain.Event{Type: domain.EventGraphReplaced})
	s.mu.Unlock()

	s.flush()
	return nil
}

func (s *Store) nodeIndex(id string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) edgeIndex(id string) int {
	for i := range s.edges {
		if s.edges[i].ID == id {
			return i
		}
	}
	return -1
}
