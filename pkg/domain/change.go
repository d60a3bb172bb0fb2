package domain

// ChangeType identifies the kind of partial update carried by a NodeChange or EdgeChange.
type ChangeType string

const (
	ChangePosition   ChangeType = "position"
	ChangeDimensions ChangeType = "dimensions"
	ChangeSelect     ChangeType = "select"
	ChangeRemove     ChangeType = "remove"
)

// NodeChange is a partial update for one node, as produced by dragging, resizing or selecting.
// Only the fields relevant to Type are read.
type NodeChange struct {
	ID       string     `json:"id" validate:"required"`
	Type     ChangeType `json:"type" validate:"required,oneof=position dimensions select remove"`
	Position *Position  `json:"position,omitempty"`
	Width    *float64   `json:"width,omitempty"`
	Height   *float64   `json:"height,omitempty"`
	Selected *bool      `json:"selected,omitempty"`
}

// EdgeChange is a partial update for one edge. Only select and remove apply to edges.
type EdgeChange struct {
	ID       string     `json:"id" validate:"required"`
	Type     ChangeType `json:"type" validate:"required,oneof=select remove"`
	Selected *bool      `json:"selected,omitempty"`
}
