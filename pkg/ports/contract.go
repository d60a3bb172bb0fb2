package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractGraph() domain.Graph {
	in := domain.NewNode("customInput-1", domain.NodeTypeInput, domain.Position{X: 10, Y: 20})
	in.Data["inputName"] = "input_1"
	in.Data["inputType"] = "Text"
	text := domain.NewNode("text-1", domain.NodeTypeText, domain.Position{X: 200, Y: 20})
	text.Data["text"] = "Hello {{ name }}"
	w := 260.0
	text.Width = &w
	delay := domain.NewNode("delay-1", domain.NodeTypeDelay, domain.Position{})
	delay.Data["ms"] = 1000

	return domain.Graph{
		Nodes: []domain.Node{in, text, delay},
		Edges: []domain.Edge{{
			ID:           "edge-1",
			Source:       "customInput-1",
			SourceHandle: "customInput-1-value",
			Target:       "text-1",
			TargetHandle: "text-1-var-name",
		}},
	}
}

// RunGraphStoreContract runs a suite of tests to verify that a GraphStore implementation
// adheres to the defined interface contract.
func RunGraphStoreContract(t *testing.T, store GraphStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		g := contractGraph()
		require.NoError(t, store.Save(ctx, sessionID, g), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Nodes, 3)
		require.Len(t, loaded.Edges, 1)

		assert.Equal(t, g.Nodes[0].ID, loaded.Nodes[0].ID, "node order is preserved")
		assert.Equal(t, g.Nodes[1].Position, loaded.Nodes[1].Position)
		assert.Equal(t, "Hello {{ name }}", loaded.Nodes[1].Data["text"])
		require.NotNil(t, loaded.Nodes[1].Width)
		assert.Equal(t, 260.0, *loaded.Nodes[1].Width)
		assert.Equal(t, g.Edges[0], loaded.Edges[0])
		// Serializing stores may turn ints into float64.
		assert.NotNil(t, loaded.Nodes[2].Data["ms"])
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Nodes[0].Data["inputName"] = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "input_1", again.Nodes[0].Data["inputName"])
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.Graph{}))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Nodes)
		assert.Empty(t, loaded.Edges)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractGraph()))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, contractGraph()))
		require.NoError(t, store.Save(ctx, id2, domain.Graph{}))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
		assert.NotContains(t, sessions, sessionID)
	})
}
