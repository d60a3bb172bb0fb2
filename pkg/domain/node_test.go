package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNode_SelfReference(t *testing.T) {
	n := NewNode("text-abc", NodeTypeText, Position{X: 1, Y: 2})

	assert.Equal(t, "text-abc", n.Data[DataKeyID])
	assert.Equal(t, NodeTypeText, n.Data[DataKeyType])
	assert.Equal(t, Position{X: 1, Y: 2}, n.Position)
}

func TestNode_CloneIsolation(t *testing.T) {
	w := 220.0
	n := NewNode("text-abc", NodeTypeText, Position{})
	n.Width = &w
	n.Data["text"] = "hello"

	c := n.Clone()
	c.Data["text"] = "changed"
	*c.Width = 999

	assert.Equal(t, "hello", n.Data["text"])
	assert.Equal(t, 220.0, *n.Width)
}

func TestNode_Value(t *testing.T) {
	n := NewNode("x", NodeTypeText, Position{})
	n.Data["nil"] = nil

	_, ok := n.Value("missing")
	assert.False(t, ok)

	_, ok = n.Value("nil")
	assert.False(t, ok, "nil entries count as undefined")

	v, ok := n.Value(DataKeyID)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	var empty Node
	_, ok = empty.Value("anything")
	assert.False(t, ok)
}

func TestHandleID(t *testing.T) {
	assert.Equal(t, "llm-1-response", HandleID("llm-1", "response"))
}
