package store

import (
	"testing"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestApplyNodeChanges(t *testing.T) {
	s := New()
	a := addNode(t, s, "text")
	b := addNode(t, s, "llm")
	c := addNode(t, s, "customOutput")
	require.NoError(t, s.UpdateNodeField(c.ID, "outputName", "out_1"))
	before, err := s.Node(c.ID)
	require.NoError(t, err)

	applied := s.ApplyNodeChanges([]domain.NodeChange{
		{ID: a.ID, Type: domain.ChangePosition, Position: &domain.Position{X: 5, Y: 6}},
		{ID: b.ID, Type: domain.ChangeDimensions, Width: ptr(300.0), Height: ptr(180.0)},
		{ID: b.ID, Type: domain.ChangeSelect, Selected: ptr(true)},
		{ID: "ghost", Type: domain.ChangePosition, Position: &domain.Position{X: 1}},
		{ID: a.ID, Type: domain.ChangePosition},
		{ID: a.ID, Type: "resize"},
	})
	assert.Equal(t, 3, applied)

	gotA, _ := s.Node(a.ID)
	assert.Equal(t, domain.Position{X: 5, Y: 6}, gotA.Position)

	gotB, _ := s.Node(b.ID)
	require.NotNil(t, gotB.Width)
	assert.Equal(t, 300.0, *gotB.Width)
	assert.Equal(t, 180.0, *gotB.Height)
	assert.True(t, gotB.Selected)

	gotC, err := s.Node(c.ID)
	require.NoError(t, err)
	assert.Equal(t, before, gotC)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, nodeIDs(s.Snapshot()))
}

func nodeIDs(g domain.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestApplyNodeChanges_RemoveDropsIncidentEdges(t *testing.T) {
	s := New()
	a := addNode(t, s, "customInput")
	b := addNode(t, s, "llm")
	c := addNode(t, s, "customOutput")

	_, err := s.Connect(domain.Connection{Source: a.ID, SourceHandle: a.ID + "-value", Target: b.ID, TargetHandle: b.ID + "-prompt"})
	require.NoError(t, err)
	keep, err := s.Connect(domain.Connection{Source: c.ID, Target: a.ID})
	require.NoError(t, err)
	_, err = s.Connect(domain.Connection{Source: b.ID, Target: c.ID})
	require.NoError(t, err)

	applied := s.ApplyNodeChanges([]domain.NodeChange{{ID: b.ID, Type: domain.ChangeRemove}})
	assert.Equal(t, 1, applied)

	snap := s.Snapshot()
	require.Len(t, snap.Nodes, 2)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, keep.ID, snap.Edges[0].ID)

	_, err = s.Node(b.ID)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestApplyNodeChanges_Empty(t *testing.T) {
	s := New()
	events := 0
	s.Subscribe(func(domain.Event) { events++ })

	assert.Equal(t, 0, s.ApplyNodeChanges(nil))
	assert.Equal(t, 0, s.ApplyNodeChanges([]domain.NodeChange{{ID: "ghost", Type: domain.ChangeRemove}}))
	assert.Zero(t, events, "no-op batches publish nothing")
}

func TestConnect_IsStructural(t *testing.T) {
	s := New()
	a := addNode(t, s, "text")

	// Dangling target and unknown handles are accepted.
	e, err := s.Connect(domain.Connection{Source: a.ID, SourceHandle: "nope", Target: "missing-1", TargetHandle: "nope"})
	require.NoError(t, err)
	assert.True(t, len(e.ID) > len("edge-"))
	assert.Equal(t, "edge-", e.ID[:5])

	// Self loops and duplicates are accepted with distinct ids.
	c := domain.Connection{Source: a.ID, Target: a.ID}
	e1, err := s.Connect(c)
	require.NoError(t, err)
	e2, err := s.Connect(c)
	require.NoError(t, err)
	assert.NotEqual(t, e1.ID, e2.ID)

	_, edges := s.Len()
	assert.Equal(t, 3, edges)
}

func TestConnect_MissingEndpoint(t *testing.T) {
	_, err := New().Connect(domain.Connection{Source: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidConnection)
}

func TestEdgeIDsNeverCollideWithNodes(t *testing.T) {
	s := New(WithSuffixGenerator(seq("1", "1", "2")))
	require.NoError(t, s.AddNode(domain.NewNode("edge-1", "generic", domain.Position{})))

	e, err := s.Connect(domain.Connection{Source: "edge-1", Target: "edge-1"})
	require.NoError(t, err)
	assert.Equal(t, "edge-2", e.ID)
}

func TestApplyEdgeChanges(t *testing.T) {
	s := New()
	a := addNode(t, s, "text")
	e1, _ := s.Connect(domain.Connection{Source: a.ID, Target: a.ID})
	e2, _ := s.Connect(domain.Connection{Source: a.ID, Target: a.ID})

	applied := s.ApplyEdgeChanges([]domain.EdgeChange{
		{ID: e1.ID, Type: domain.ChangeSelect, Selected: ptr(true)},
		{ID: e2.ID, Type: domain.ChangeRemove},
		{ID: "edge-ghost", Type: domain.ChangeRemove},
		{ID: e1.ID, Type: domain.ChangePosition},
	})
	assert.Equal(t, 2, applied)

	got, err := s.Edge(e1.ID)
	require.NoError(t, err)
	assert.True(t, got.Selected)

	_, err = s.Edge(e2.ID)
	assert.ErrorIs(t, err, domain.ErrEdgeNotFound)
}

func TestRemoveEdge(t *testing.T) {
	s := New()
	a := addNode(t, s, "text")
	e, _ := s.Connect(domain.Connection{Source: a.ID, Target: a.ID})

	require.NoError(t, s.RemoveEdge(e.ID))
	assert.ErrorIs(t, s.RemoveEdge(e.ID), domain.ErrEdgeNotFound)
}
