package flowboard

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/flowboard/pkg/adapters/validator"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_SubmitWithoutValidator(t *testing.T) {
	ed := New()
	_, err := ed.Submit(context.Background())
	assert.ErrorIs(t, err, editor.ErrNoValidator)
}

func TestEditor_SubmitToValidator(t *testing.T) {
	srv := httptest.NewServer(validator.NewHandler())
	defer srv.Close()

	ed := New(WithValidator(srv.URL))
	a, err := ed.Drop(domain.DropPayload{NodeType: domain.NodeTypeText}, domain.Position{})
	require.NoError(t, err)
	b, err := ed.Drop(domain.DropPayload{NodeType: domain.NodeTypeText}, domain.Position{})
	require.NoError(t, err)
	_, err = ed.Connect(domain.Connection{Source: a.Node.ID, Target: b.Node.ID})
	require.NoError(t, err)
	_, err = ed.Connect(domain.Connection{Source: b.Node.ID, Target: a.Node.ID})
	require.NoError(t, err)

	res, err := ed.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineResult{NumNodes: 2, NumEdges: 2, IsDAG: false}, res)
	assert.Equal(t, res, ed.Analyze())
}

func TestEditor_StrictConnections(t *testing.T) {
	ed := New(WithStrictConnections())
	assert.Equal(t, editor.Strict, ed.Policy())

	_, err := ed.Connect(domain.Connection{Source: "ghost", Target: "ghost-2"})
	assert.ErrorIs(t, err, domain.ErrInvalidConnection)
}

func TestEditor_Mermaid(t *testing.T) {
	ed := New()
	_, err := ed.Drop(domain.DropPayload{NodeType: domain.NodeTypeInput}, domain.Position{})
	require.NoError(t, err)
	assert.Contains(t, ed.Mermaid(), "graph LR")
}
