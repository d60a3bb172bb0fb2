package dsl

import "github.com/aretw0/flowboard/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
// Builder methods are promoted so chains can move on to the next node.
type NodeBuilder struct {
	*Builder
	node *domain.Node
}

// At sets the canvas position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	return n
}

// Set writes one data field.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	n.node.Data[key] = value
	return n
}

// Text sets the template of a text node.
func (n *NodeBuilder) Text(template string) *NodeBuilder {
	return n.Set("text", template)
}

// Size fixes the rendered dimensions.
func (n *NodeBuilder) Size(width, height float64) *NodeBuilder {
	n.node.Width = &width
	n.node.Height = &height
	return n
}

// To connects a source handle of this node to a target handle of another node.
func (n *NodeBuilder) To(sourceHandle, target, targetHandle string) *NodeBuilder {
	n.Builder.Connect(n.node.ID, sourceHandle, target, targetHandle)
	return n
}

// Node returns a copy of the node as configured so far.
func (n *NodeBuilder) Node() domain.Node {
	return n.node.Clone()
}
