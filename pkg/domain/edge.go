package domain

// Edge is a directed connection between a source node's output handle and a target node's input handle.
type Edge struct {
	ID           string `json:"id" yaml:"id"`
	Source       string `json:"source" yaml:"source"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	Target       string `json:"target" yaml:"target"`
	TargetHandle string `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`

	// Presentation hints carried through untouched.
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Animated bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Connection is an edge candidate produced by a drag-connect gesture. It has no id yet.
type Connection struct {
	Source       string `json:"source" validate:"required"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target" validate:"required"`
	TargetHandle string `json:"targetHandle"`
}
