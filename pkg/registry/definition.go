package registry

import (
	"fmt"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/schema"
	"github.com/aretw0/flowboard/pkg/template"
)

// DefaultMinHeight is the card height used by node types that do not declare one.
const DefaultMinHeight = 90.0

// HandleSpec is a static connection point declared at registration time.
// Name is local to the node; the bound handle id is "<nodeId>-<Name>".
type HandleSpec struct {
	Kind     domain.HandleKind     `json:"type"`
	Name     string                `json:"name"`
	Position domain.HandlePosition `json:"position"`
	Offset   domain.Offset         `json:"offset"`
}

// Bind resolves the spec against a concrete node.
func (s HandleSpec) Bind(nodeID string) domain.Handle {
	return domain.Handle{
		Kind:     s.Kind,
		NodeID:   nodeID,
		ID:       domain.HandleID(nodeID, s.Name),
		Name:     s.Name,
		Position: s.Position,
		Offset:   s.Offset,
	}
}

// HandleDeriver computes the full handle list from the node's data.
// It must be deterministic: the same data always yields the same list.
type HandleDeriver func(nodeID string, data map[string]any) []domain.Handle

// SizeFunc computes node dimensions from its data.
type SizeFunc func(data map[string]any) template.Size

// Definition is the rendering contract of a node type.
// Exactly one of Handles or Derive is used; Derive wins when both are set.
type Definition struct {
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Fields      []schema.Field `json:"fields"`
	Handles     []HandleSpec   `json:"handles,omitempty"`
	Derive      HandleDeriver  `json:"-"`
	Measure     SizeFunc       `json:"-"`
	MinHeight   float64        `json:"min_height,omitempty"`
}

// Check validates the definition itself.
func (d Definition) Check() error {
	if d.Type == "" {
		return fmt.Errorf("definition has no type")
	}
	if d.Title == "" {
		return fmt.Errorf("definition %q: missing title", d.Type)
	}
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if err := f.Check(); err != nil {
			return fmt.Errorf("definition %q: %w", d.Type, err)
		}
		if seen[f.Key] {
			return fmt.Errorf("definition %q: duplicate field %q", d.Type, f.Key)
		}
		if f.Key == domain.DataKeyID || f.Key == domain.DataKeyType {
			return fmt.Errorf("definition %q: field key %q is reserved", d.Type, f.Key)
		}
		seen[f.Key] = true
	}
	handles := make(map[string]bool, len(d.Handles))
	for _, h := range d.Handles {
		if h.Name == "" {
			return fmt.Errorf("definition %q: handle without name", d.Type)
		}
		k := string(h.Kind) + "/" + h.Name
		if handles[k] {
			return fmt.Errorf("definition %q: duplicate %s handle %q", d.Type, h.Kind, h.Name)
		}
		handles[k] = true
	}
	return nil
}

// Dynamic reports whether the handle list depends on node data.
func (d Definition) Dynamic() bool { return d.Derive != nil }

// HandlesFor returns the handle list for a node with the given id and data.
func (d Definition) HandlesFor(nodeID string, data map[string]any) []domain.Handle {
	if d.Derive != nil {
		return d.Derive(nodeID, data)
	}
	out := make([]domain.Handle, len(d.Handles))
	for i, s := range d.Handles {
		out[i] = s.Bind(nodeID)
	}
	return out
}

// SizeFor returns the node dimensions for the given data.
func (d Definition) SizeFor(data map[string]any) template.Size {
	if d.Measure != nil {
		return d.Measure(data)
	}
	h := d.MinHeight
	if h == 0 {
		h = DefaultMinHeight
	}
	return template.Size{Width: template.MinWidth, Height: h}
}

// FindHandle returns the handle of the given kind and full id exposed by the node.
func FindHandle(handles []domain.Handle, kind domain.HandleKind, id string) (domain.Handle, bool) {
	for _, h := range handles {
		if h.Kind == kind && h.ID == id {
			return h, true
		}
	}
	return domain.Handle{}, false
}
