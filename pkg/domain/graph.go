package domain

// Graph is the serializable pair of nodes and edges exchanged with the validator and snapshot stores.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	c := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		c.Nodes[i] = n.Clone()
	}
	copy(c.Edges, g.Edges)
	return c
}

// PipelineResult is the validator's verdict. A cycle is data (IsDAG == false), not a failure.
type PipelineResult struct {
	NumNodes int  `json:"num_nodes"`
	NumEdges int  `json:"num_edges"`
	IsDAG    bool `json:"is_dag"`
}
