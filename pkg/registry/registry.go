package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/template"
)

// ErrTypeRegistered is returned when a node type is registered twice.
var ErrTypeRegistered = errors.New("node type already registered")

// Registry manages the available node types.
// It is safe for concurrent use; registration normally happens once at startup.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]Definition),
	}
}

// Register adds a node type to the registry.
// Existing types are never replaced: adding behaviour means adding a type.
func (r *Registry) Register(def Definition) error {
	if err := def.Check(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Type]; exists {
		return fmt.Errorf("%w: %s", ErrTypeRegistered, def.Type)
	}
	r.defs[def.Type] = def
	r.order = append(r.order, def.Type)
	return nil
}

// MustRegister is like Register but panics on error. Intended for static tables.
func (r *Registry) MustRegister(defs ...Definition) *Registry {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the definition registered for nodeType.
func (r *Registry) Lookup(nodeType string) (Definition, error) {
	r.mu.RLock()
	def, ok := r.defs[nodeType]
	r.mu.RUnlock()

	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", domain.ErrUnknownNodeType, nodeType)
	}
	return def, nil
}

// Has reports whether nodeType is registered.
func (r *Registry) Has(nodeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[nodeType]
	return ok
}

// Types returns the registered definitions in registration order.
func (r *Registry) Types() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, len(r.order))
	for i, t := range r.order {
		out[i] = r.defs[t]
	}
	return out
}

// Handles returns the full, ordered handle list of node.
// Static handles are bound to the node id; derived handles are computed from node.Data alone.
func (r *Registry) Handles(node domain.Node) ([]domain.Handle, error) {
	def, err := r.Lookup(node.Type)
	if err != nil {
		return nil, err
	}
	return def.HandlesFor(node.ID, node.Data), nil
}

// Size returns the node's derived dimensions.
func (r *Registry) Size(node domain.Node) (template.Size, error) {
	def, err := r.Lookup(node.Type)
	if err != nil {
		return template.Size{}, err
	}
	return def.SizeFor(node.Data), nil
}
