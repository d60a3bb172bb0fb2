package schema

import (
	"encoding/json"
	"fmt"
)

// Kind is the input widget a renderer must use for a field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindTextarea, KindNumber, KindSelect, KindCheckbox:
		return true
	}
	return false
}

// DefaultFunc computes a default from the node id and its current data.
type DefaultFunc func(nodeID string, data map[string]any) any

// Constraints bound numeric fields and size textareas. Nil bounds are open.
type Constraints struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
	Rows int      `json:"rows,omitempty"`
}

// Field declares one user-editable value on a node.
// If DefaultFunc is set it takes precedence over Default.
type Field struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Kind        Kind        `json:"kind"`
	Default     any         `json:"default,omitempty"`
	DefaultFunc DefaultFunc `json:"-"`
	Options     []any       `json:"options,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Constraints Constraints `json:"constraints,omitzero"`
}

// MarshalJSON adds a "computed_default" flag so clients know the default depends on the node.
func (f Field) MarshalJSON() ([]byte, error) {
	type alias Field
	return json.Marshal(struct {
		alias
		ComputedDefault bool `json:"computed_default,omitempty"`
	}{
		alias:           alias(f),
		ComputedDefault: f.DefaultFunc != nil,
	})
}

// Check verifies the declaration itself: a key, a known kind, and options for selects.
func (f Field) Check() error {
	if f.Key == "" {
		return fmt.Errorf("field has no key")
	}
	if !f.Kind.Valid() {
		return fmt.Errorf("field %q: unsupported kind %q", f.Key, f.Kind)
	}
	if f.Kind == KindSelect && len(f.Options) == 0 {
		return fmt.Errorf("field %q: select requires options", f.Key)
	}
	c := f.Constraints
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("field %q: min %v greater than max %v", f.Key, *c.Min, *c.Max)
	}
	return nil
}

// Float is a convenience for building Constraints literals.
func Float(v float64) *float64 { return &v }
