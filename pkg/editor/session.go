package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/schema"
	"github.com/aretw0/flowboard/pkg/store"
	"github.com/aretw0/flowboard/pkg/submit"
	"github.com/aretw0/flowboard/pkg/template"
)

// ErrReservedKey is returned when a field edit targets the node's self-reference keys.
var ErrReservedKey = errors.New("reserved data key")

// ErrNoValidator is returned by Submit when the session has no submitter.
var ErrNoValidator = errors.New("no validator configured")

// ConnectPolicy decides how Connect treats candidates the graph cannot honour.
type ConnectPolicy int

const (
	// Lenient stores every candidate, like the bare store.
	Lenient ConnectPolicy = iota
	// Strict rejects candidates whose nodes or handles do not exist.
	Strict
)

func (p ConnectPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// ParsePolicy maps "strict" and "lenient" to a ConnectPolicy.
func ParsePolicy(s string) (ConnectPolicy, error) {
	switch s {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	}
	return Lenient, fmt.Errorf("unknown connect policy %q", s)
}

// RenderedNode is everything a presentation layer needs to draw one node.
type RenderedNode struct {
	Node        domain.Node     `json:"node"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Fields      []schema.Field  `json:"fields"`
	Handles     []domain.Handle `json:"handles"`
	Size        template.Size   `json:"size"`
}

// Session is one user's editing session over a single graph.
type Session struct {
	store        *store.Store
	registry     *registry.Registry
	submitter    *submit.Submitter
	policy       ConnectPolicy
	strictFields bool
	logger       *slog.Logger
}

// Option configures the Session.
type Option func(*Session)

// WithStore uses an existing store instead of a fresh one.
func WithStore(s *store.Store) Option {
	return func(sess *Session) {
		sess.store = s
	}
}

// WithSubmitter enables Submit.
func WithSubmitter(s *submit.Submitter) Option {
	return func(sess *Session) {
		sess.submitter = s
	}
}

// WithConnectPolicy sets the connection policy. The default is Lenient.
func WithConnectPolicy(p ConnectPolicy) Option {
	return func(sess *Session) {
		sess.policy = p
	}
}

// WithStrictFields makes SetField reject undeclared keys and values that fail field validation.
func WithStrictFields(strict bool) Option {
	return func(sess *Session) {
		sess.strictFields = strict
	}
}

// WithLogger configures a logger for the Session.
func WithLogger(l *slog.Logger) Option {
	return func(sess *Session) {
		sess.logger = l
	}
}

// New creates a session over an empty graph.
func New(reg *registry.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.New(store.WithLogger(s.logger))
	}
	return s
}

// Store exposes the underlying graph store, e.g. for subscriptions.
func (s *Session) Store() *store.Store { return s.store }

// Registry returns the node registry used by the session.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Policy returns the connection policy.
func (s *Session) Policy() ConnectPolicy { return s.policy }

// Graph returns a snapshot of the current graph.
func (s *Session) Graph() domain.Graph { return s.store.Snapshot() }

// Load replaces the graph with g, e.g. a persisted snapshot.
func (s *Session) Load(g domain.Graph) error {
	return s.store.Replace(g)
}

// Drop creates a node of the dropped type at pos and performs its first render.
func (s *Session) Drop(p domain.DropPayload, pos domain.Position) (RenderedNode, error) {
	if p.NodeType == "" || !s.registry.Has(p.NodeType) {
		return RenderedNode{}, fmt.Errorf("drop %q: %w", p.NodeType, domain.ErrUnknownNodeType)
	}

	n := domain.NewNode(s.store.NewID(p.NodeType), p.NodeType, pos)
	if err := s.store.AddNode(n); err != nil {
		return RenderedNode{}, err
	}
	s.logger.Debug("node dropped", "node_id", n.ID, "type", n.Type)
	return s.Render(n.ID)
}

// Render materializes missing defaults of the node and returns its rendering contract.
// Defaults are written in field declaration order; values already present are never touched.
func (s *Session) Render(id string) (RenderedNode, error) {
	n, err := s.store.Node(id)
	if err != nil {
		return RenderedNode{}, err
	}
	def, err := s.registry.Lookup(n.Type)
	if err != nil {
		return RenderedNode{}, err
	}

	defaults := schema.Defaults(def.Fields, n.ID, n.Data)
	if len(defaults) > 0 {
		for _, f := range def.Fields {
			v, ok := defaults[f.Key]
			if !ok {
				continue
			}
			if err := s.store.UpdateNodeField(n.ID, f.Key, v); err != nil {
				return RenderedNode{}, err
			}
		}
		if n, err = s.store.Node(id); err != nil {
			return RenderedNode{}, err
		}
	}

	return RenderedNode{
		Node:        n,
		Title:       def.Title,
		Description: def.Description,
		Fields:      def.Fields,
		Handles:     def.HandlesFor(n.ID, n.Data),
		Size:        def.SizeFor(n.Data),
	}, nil
}

// RenderAll renders every node of the graph, in graph order.
func (s *Session) RenderAll() ([]RenderedNode, error) {
	g := s.store.Snapshot()
	out := make([]RenderedNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		r, err := s.Render(n.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// SetField writes one field value. In strict mode the key must be declared and the value valid.
func (s *Session) SetField(id, key string, value any) error {
	if key == domain.DataKeyID || key == domain.DataKeyType {
		return fmt.Errorf("set %q: %w", key, ErrReservedKey)
	}

	if s.strictFields {
		n, err := s.store.Node(id)
		if err != nil {
			return err
		}
		def, err := s.registry.Lookup(n.Type)
		if err != nil {
			return err
		}
		f, ok := schema.Lookup(def.Fields, key)
		if !ok {
			return &schema.ValidationError{Key: key, Reason: "not declared by " + n.Type}
		}
		if err := schema.ValidateValue(f, value); err != nil {
			return err
		}
	}
	return s.store.UpdateNodeField(id, key, value)
}

// Move sets the node position.
func (s *Session) Move(id string, pos domain.Position) error {
	if s.store.ApplyNodeChanges([]domain.NodeChange{{ID: id, Type: domain.ChangePosition, Position: &pos}}) == 0 {
		return fmt.Errorf("move %q: %w", id, domain.ErrNodeNotFound)
	}
	return nil
}

// Remove deletes a node and its incident edges.
func (s *Session) Remove(id string) error {
	if s.store.ApplyNodeChanges([]domain.NodeChange{{ID: id, Type: domain.ChangeRemove}}) == 0 {
		return fmt.Errorf("remove %q: %w", id, domain.ErrNodeNotFound)
	}
	return nil
}

// ApplyChanges forwards a batch of node changes to the store.
func (s *Session) ApplyChanges(changes []domain.NodeChange) int {
	return s.store.ApplyNodeChanges(changes)
}

// ApplyEdgeChanges forwards a batch of edge changes to the store.
func (s *Session) ApplyEdgeChanges(changes []domain.EdgeChange) int {
	return s.store.ApplyEdgeChanges(changes)
}

// Connect adds an edge for the candidate, subject to the session's policy.
func (s *Session) Connect(c domain.Connection) (domain.Edge, error) {
	if s.policy == Strict {
		if err := s.checkConnection(c); err != nil {
			return domain.Edge{}, err
		}
	}
	return s.store.Connect(c)
}

func (s *Session) checkConnection(c domain.Connection) error {
	if err := s.checkEndpoint(c.Source, c.SourceHandle, domain.HandleSource); err != nil {
		return err
	}
	return s.checkEndpoint(c.Target, c.TargetHandle, domain.HandleTarget)
}

func (s *Session) checkEndpoint(nodeID, handleID string, kind domain.HandleKind) error {
	n, err := s.store.Node(nodeID)
	if err != nil {
		return fmt.Errorf("%w: %s node %q does not exist", domain.ErrInvalidConnection, kind, nodeID)
	}
	handles, err := s.registry.Handles(n)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConnection, err)
	}
	if handleID == "" {
		return fmt.Errorf("%w: missing %s handle on %q", domain.ErrInvalidConnection, kind, nodeID)
	}
	if _, ok := registry.FindHandle(handles, kind, handleID); !ok {
		return fmt.Errorf("%w: node %q has no %s handle %q", domain.ErrInvalidConnection, nodeID, kind, handleID)
	}
	return nil
}

// Submit sends a snapshot of the graph to the validator. See submit.Submitter.
func (s *Session) Submit(ctx context.Context) (domain.PipelineResult, error) {
	if s.submitter == nil {
		return domain.PipelineResult{}, ErrNoValidator
	}
	return s.submitter.Submit(ctx, s.store)
}

// Pending reports whether a submission is in flight.
func (s *Session) Pending() bool {
	return s.submitter != nil && s.submitter.Pending()
}
