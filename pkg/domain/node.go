package domain

// Reserved keys written into every node's data map so renderers can refer back to the node.
const (
	DataKeyID   = "id"
	DataKeyType = "nodeType"
)

// Position is a point on the editor canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node represents a logical unit in the pipeline.
// Data holds one entry per declared field (once materialized) plus the reserved id/nodeType keys.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Position Position       `json:"position" yaml:"position"`
	Data     map[string]any `json:"data" yaml:"data"`

	// Measured dimensions reported by the presentation layer (optional).
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`

	Selected bool `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// NewNode builds a node with its self-referencing data keys set.
func NewNode(id, nodeType string, pos Position) Node {
	return Node{
		ID:       id,
		Type:     nodeType,
		Position: pos,
		Data: map[string]any{
			DataKeyID:   id,
			DataKeyType: nodeType,
		},
	}
}

// Clone returns a copy that shares no mutable state with n.
// Data values are copied one level deep; field values are scalars in practice.
func (n Node) Clone() Node {
	c := n
	c.Data = make(map[string]any, len(n.Data))
	for k, v := range n.Data {
		c.Data[k] = v
	}
	if n.Width != nil {
		w := *n.Width
		c.Width = &w
	}
	if n.Height != nil {
		h := *n.Height
		c.Height = &h
	}
	return c
}

// Value returns the data entry for key and whether it is defined.
func (n Node) Value(key string) (any, bool) {
	if n.Data == nil {
		return nil, false
	}
	v, ok := n.Data[key]
	return v, ok && v != nil
}

// DropPayload is the ephemeral drag-to-create transfer from a palette item to the canvas.
type DropPayload struct {
	NodeType string `json:"nodeType" validate:"required"`
}
