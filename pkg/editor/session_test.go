package editor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/flowboard/pkg/dag"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/schema"
	"github.com/aretw0/flowboard/pkg/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(opts ...Option) *Session {
	return New(registry.Builtin(), opts...)
}

func drop(t *testing.T, s *Session, nodeType string) RenderedNode {
	t.Helper()
	r, err := s.Drop(domain.DropPayload{NodeType: nodeType}, domain.Position{X: 100, Y: 50})
	require.NoError(t, err)
	return r
}

func TestDrop_MaterializesEveryDefault(t *testing.T) {
	reg := registry.Builtin()
	for _, def := range reg.Types() {
		t.Run(def.Type, func(t *testing.T) {
			s := New(reg)
			r := drop(t, s, def.Type)

			assert.True(t, strings.HasPrefix(r.Node.ID, def.Type+"-"))
			assert.Equal(t, r.Node.ID, r.Node.Data[domain.DataKeyID])
			assert.Equal(t, def.Type, r.Node.Data[domain.DataKeyType])
			assert.Equal(t, domain.Position{X: 100, Y: 50}, r.Node.Position)

			stored, err := s.Store().Node(r.Node.ID)
			require.NoError(t, err)
			assert.Empty(t, schema.Missing(def.Fields, stored.Data))
			assert.Equal(t, def.Title, r.Title)
		})
	}
}

func TestDrop_UnknownType(t *testing.T) {
	s := newSession()

	_, err := s.Drop(domain.DropPayload{NodeType: "teleporter"}, domain.Position{})
	assert.ErrorIs(t, err, domain.ErrUnknownNodeType)

	_, err = s.Drop(domain.DropPayload{}, domain.Position{})
	assert.ErrorIs(t, err, domain.ErrUnknownNodeType)

	nodes, _ := s.Store().Len()
	assert.Zero(t, nodes)
}

func TestDrop_InputNameFollowsID(t *testing.T) {
	s := newSession()
	r := drop(t, s, domain.NodeTypeInput)

	suffix := strings.TrimPrefix(r.Node.ID, domain.NodeTypeInput+"-")
	assert.Equal(t, "input_"+suffix, r.Node.Data["inputName"])
	assert.Equal(t, "Text", r.Node.Data["inputType"])
}

func TestRender_NeverOverwritesEdits(t *testing.T) {
	s := newSession()
	r := drop(t, s, domain.NodeTypeInput)

	require.NoError(t, s.SetField(r.Node.ID, "inputName", "customer"))
	require.NoError(t, s.SetField(r.Node.ID, "inputType", "File"))

	for i := 0; i < 3; i++ {
		again, err := s.Render(r.Node.ID)
		require.NoError(t, err)
		assert.Equal(t, "customer", again.Node.Data["inputName"])
		assert.Equal(t, "File", again.Node.Data["inputType"])
	}
}

func TestRender_WritesDefaultsOnce(t *testing.T) {
	s := newSession()
	r := drop(t, s, domain.NodeTypeHTTP)

	updates := 0
	s.Store().Subscribe(func(ev domain.Event) {
		if ev.Type == domain.EventNodeUpdated {
			updates++
		}
	})
	_, err := s.Render(r.Node.ID)
	require.NoError(t, err)
	assert.Zero(t, updates)
}

func TestRender_MissingNode(t *testing.T) {
	_, err := newSession().Render("text-ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestRender_TextHandlesTrackEdits(t *testing.T) {
	s := newSession()
	r := drop(t, s, domain.NodeTypeText)
	id := r.Node.ID

	assert.Equal(t, "{{input}}", r.Node.Data["text"])
	require.Len(t, r.Handles, 2)
	assert.Equal(t, id+"-var-input", r.Handles[0].ID)

	require.NoError(t, s.SetField(id, "text", "{{ topic }} in {{style}} and {{topic}}"))
	r, err := s.Render(id)
	require.NoError(t, err)

	var names []string
	for _, h := range r.Handles {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"var-topic", "var-style", "output"}, names)
	assert.Equal(t, 176.0, r.Size.Height)

	require.NoError(t, s.SetField(id, "text", "no variables"))
	r, err = s.Render(id)
	require.NoError(t, err)
	require.Len(t, r.Handles, 1)
	assert.Equal(t, domain.HandleSource, r.Handles[0].Kind)
}

func TestRender_LoadedGraphFillsGaps(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Load(domain.Graph{Nodes: []domain.Node{
		{ID: "delay-1", Type: domain.NodeTypeDelay, Data: map[string]any{"ms": 250}},
	}}))

	all, err := s.RenderAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 250, all[0].Node.Data["ms"])

	// An id issued by a loaded graph is never reused.
	assert.NotEqual(t, "delay-1", s.Store().NewID(domain.NodeTypeDelay))
}

func TestSetField(t *testing.T) {
	s := newSession()
	r := drop(t, s, domain.NodeTypeMath)

	// Lenient sessions store whatever the presentation sends.
	require.NoError(t, s.SetField(r.Node.ID, "a", "not a number"))
	require.NoError(t, s.SetField(r.Node.ID, "undeclared", true))

	assert.ErrorIs(t, s.SetField(r.Node.ID, domain.DataKeyID, "x"), ErrReservedKey)
	assert.ErrorIs(t, s.SetField("math-ghost", "a", 1), domain.ErrNodeNotFound)
}

func TestSetField_Strict(t *testing.T) {
	s := newSession(WithStrictFields(true))
	r := drop(t, s, domain.NodeTypeMath)

	assert.NoError(t, s.SetField(r.Node.ID, "a", 3.5))
	assert.NoError(t, s.SetField(r.Node.ID, "operation", "divide"))

	var verr *schema.ValidationError
	assert.ErrorAs(t, s.SetField(r.Node.ID, "a", "three"), &verr)
	assert.Equal(t, "a", verr.Key)
	assert.ErrorAs(t, s.SetField(r.Node.ID, "operation", "modulo"), &verr)
	assert.ErrorAs(t, s.SetField(r.Node.ID, "undeclared", 1), &verr)

	n, _ := s.Store().Node(r.Node.ID)
	assert.Equal(t, 3.5, n.Data["a"])
	assert.Equal(t, "divide", n.Data["operation"])
}

func TestMoveAndRemove(t *testing.T) {
	s := newSession()
	a := drop(t, s, domain.NodeTypeInput)
	b := drop(t, s, domain.NodeTypeOutput)
	_, err := s.Connect(domain.Connection{Source: a.Node.ID, Target: b.Node.ID})
	require.NoError(t, err)

	require.NoError(t, s.Move(a.Node.ID, domain.Position{X: 1, Y: 2}))
	n, _ := s.Store().Node(a.Node.ID)
	assert.Equal(t, domain.Position{X: 1, Y: 2}, n.Position)

	require.NoError(t, s.Remove(b.Node.ID))
	g := s.Graph()
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)

	assert.ErrorIs(t, s.Move("ghost", domain.Position{}), domain.ErrNodeNotFound)
	assert.ErrorIs(t, s.Remove("ghost"), domain.ErrNodeNotFound)
}

func TestConnect_LenientAcceptsAnything(t *testing.T) {
	s := newSession()
	a := drop(t, s, domain.NodeTypeInput)

	e, err := s.Connect(domain.Connection{Source: a.Node.ID, SourceHandle: "bogus", Target: "nowhere", TargetHandle: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, "nowhere", e.Target)
	assert.Equal(t, Lenient, s.Policy())
}

func TestConnect_Strict(t *testing.T) {
	s := newSession(WithConnectPolicy(Strict))
	in := drop(t, s, domain.NodeTypeInput)
	llm := drop(t, s, domain.NodeTypeLLM)
	text := drop(t, s, domain.NodeTypeText)

	ok := domain.Connection{
		Source: in.Node.ID, SourceHandle: in.Node.ID + "-value",
		Target: llm.Node.ID, TargetHandle: llm.Node.ID + "-prompt",
	}
	_, err := s.Connect(ok)
	require.NoError(t, err)

	// Variable handles of text nodes are valid targets.
	_, err = s.Connect(domain.Connection{
		Source: in.Node.ID, SourceHandle: in.Node.ID + "-value",
		Target: text.Node.ID, TargetHandle: text.Node.ID + "-var-input",
	})
	require.NoError(t, err)

	bad := []domain.Connection{
		{Source: "ghost", SourceHandle: "ghost-value", Target: llm.Node.ID, TargetHandle: llm.Node.ID + "-prompt"},
		{Source: in.Node.ID, SourceHandle: in.Node.ID + "-value", Target: "ghost", TargetHandle: "ghost-in"},
		{Source: in.Node.ID, SourceHandle: in.Node.ID + "-nope", Target: llm.Node.ID, TargetHandle: llm.Node.ID + "-prompt"},
		{Source: in.Node.ID, SourceHandle: in.Node.ID + "-value", Target: llm.Node.ID, TargetHandle: llm.Node.ID + "-response"},
		{Source: in.Node.ID, Target: llm.Node.ID, TargetHandle: llm.Node.ID + "-prompt"},
		{Source: in.Node.ID, SourceHandle: in.Node.ID + "-value", Target: text.Node.ID, TargetHandle: text.Node.ID + "-var-other"},
	}
	for _, c := range bad {
		_, err := s.Connect(c)
		assert.ErrorIs(t, err, domain.ErrInvalidConnection, "%+v", c)
	}

	_, edges := s.Store().Len()
	assert.Equal(t, 2, edges)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)
	assert.Equal(t, "strict", p.String())

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Lenient, p)

	_, err = ParsePolicy("paranoid")
	assert.Error(t, err)
}

func TestSubmit_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var g domain.Graph
		require.NoError(t, json.NewDecoder(r.Body).Decode(&g))
		_ = json.NewEncoder(w).Encode(dag.Analyze(g))
	}))
	defer srv.Close()

	s := newSession(WithSubmitter(submit.NewSubmitter(submit.NewClient(srv.URL))))
	in := drop(t, s, domain.NodeTypeInput)
	llm := drop(t, s, domain.NodeTypeLLM)
	out := drop(t, s, domain.NodeTypeOutput)
	_, _ = s.Connect(domain.Connection{Source: in.Node.ID, Target: llm.Node.ID})
	e, _ := s.Connect(domain.Connection{Source: llm.Node.ID, Target: out.Node.ID})

	before := s.Graph()
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineResult{NumNodes: 3, NumEdges: 2, IsDAG: true}, res)
	assert.Equal(t, before, s.Graph(), "submission never mutates the graph")

	_, _ = s.Connect(domain.Connection{Source: out.Node.ID, Target: in.Node.ID})
	res, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, res.IsDAG)

	require.NoError(t, s.Store().RemoveEdge(e.ID))
	res, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.IsDAG)
	assert.False(t, s.Pending())
}

func TestSubmit_WithoutValidator(t *testing.T) {
	_, err := newSession().Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoValidator)
}

func TestRender_KeepsFieldClearedToNil(t *testing.T) {
	s := newSession()
	r := drop(t, s, "customInput")

	require.NoError(t, s.SetField(r.Node.ID, "inputType", nil))
	again, err := s.Render(r.Node.ID)
	require.NoError(t, err)

	v, ok := again.Node.Data["inputType"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
