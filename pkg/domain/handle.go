package domain

// HandleKind tells whether a handle emits (source) or accepts (target) a connection.
type HandleKind string

const (
	HandleSource HandleKind = "source"
	HandleTarget HandleKind = "target"
)

// HandlePosition is the side of the node a handle is attached to.
type HandlePosition string

const (
	PositionLeft   HandlePosition = "Left"
	PositionRight  HandlePosition = "Right"
	PositionTop    HandlePosition = "Top"
	PositionBottom HandlePosition = "Bottom"
)

// Offset places a handle along its side. Exactly one of Pixels or Percent is meaningful;
// a zero Offset means "centered".
type Offset struct {
	Pixels  float64 `json:"px,omitempty"`
	Percent float64 `json:"pct,omitempty"`
}

// Handle is a derived connection point. Handles are recomputed from the node type and data
// on every render and never stored in the graph.
type Handle struct {
	Kind     HandleKind     `json:"type"`
	NodeID   string         `json:"nodeId"`
	ID       string         `json:"id"`   // Full id as referenced by edges: "<nodeId>-<name>".
	Name     string         `json:"name"` // Local name declared by the node type.
	Position HandlePosition `json:"position"`
	Offset   Offset         `json:"offset"`
}

// HandleID composes the full handle id referenced by edges.
func HandleID(nodeID, name string) string {
	return nodeID + "-" + name
}
