package dsl

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/flowboard/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes []*domain.Node
	index map[string]int
	edges []domain.Edge
	errs  []error
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Add creates a node of nodeType. Adding an existing id returns its builder;
// a conflicting type is reported by Build.
func (b *Builder) Add(id, nodeType string) *NodeBuilder {
	if i, ok := b.index[id]; ok {
		if b.nodes[i].Type != nodeType {
			b.errs = append(b.errs, fmt.Errorf("node %q added as %q and %q: %w",
				id, b.nodes[i].Type, nodeType, domain.ErrDuplicateID))
		}
		return &NodeBuilder{Builder: b, node: b.nodes[i]}
	}
	n := domain.NewNode(id, nodeType, domain.Position{})
	b.index[id] = len(b.nodes)
	b.nodes = append(b.nodes, &n)
	return &NodeBuilder{Builder: b, node: &n}
}

// Connect adds an edge between two handles given by their local names.
// An empty handle name leaves that end of the edge unbound.
func (b *Builder) Connect(source, sourceHandle, target, targetHandle string) *Builder {
	e := domain.Edge{
		ID:     domain.EdgeIDPrefix + "-" + strconv.Itoa(len(b.edges)+1),
		Source: source,
		Target: target,
	}
	if sourceHandle != "" {
		e.SourceHandle = domain.HandleID(source, sourceHandle)
	}
	if targetHandle != "" {
		e.TargetHandle = domain.HandleID(target, targetHandle)
	}
	b.edges = append(b.edges, e)
	return b
}

// Build returns the graph, nodes in insertion order.
// It fails when an edge references a node that was never added.
func (b *Builder) Build() (domain.Graph, error) {
	errs := append([]error(nil), b.errs...)
	for _, e := range b.edges {
		for _, end := range []string{e.Source, e.Target} {
			if _, ok := b.index[end]; !ok {
				errs = append(errs, fmt.Errorf("edge %q: %w: %q", e.ID, domain.ErrNodeNotFound, end))
			}
		}
	}
	if len(errs) > 0 {
		return domain.Graph{}, errors.Join(errs...)
	}

	g := domain.Graph{
		Nodes: make([]domain.Node, len(b.nodes)),
		Edges: append([]domain.Edge{}, b.edges...),
	}
	for i, n := range b.nodes {
		g.Nodes[i] = n.Clone()
	}
	return g, nil
}

// MustBuild is Build for fixtures; it panics on error.
func (b *Builder) MustBuild() domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
