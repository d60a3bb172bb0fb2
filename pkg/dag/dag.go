// Package dag decides whether a pipeline graph is acyclic.
package dag

import "github.com/aretw0/flowboard/pkg/domain"

// Analyze counts nodes and edges and runs Kahn's algorithm over g.
// Edges whose source or target is not a node are counted but play no part in the cycle check.
// Nodes with an empty id are counted but ignored, as are repeated ids.
func Analyze(g domain.Graph) domain.PipelineResult {
	return domain.PipelineResult{
		NumNodes: len(g.Nodes),
		NumEdges: len(g.Edges),
		IsDAG:    IsDAG(g),
	}
}

// IsDAG reports whether g has no directed cycle. An empty graph is a DAG.
func IsDAG(g domain.Graph) bool {
	order, total := kahn(g)
	return len(order) == total
}

// TopologicalOrder returns the node ids in a topological order, or false if g has a cycle.
// Among ready nodes, graph order is kept.
func TopologicalOrder(g domain.Graph) ([]string, bool) {
	order, total := kahn(g)
	if len(order) != total {
		return nil, false
	}
	return order, true
}

func kahn(g domain.Graph) ([]string, int) {
	inDegree := make(map[string]int, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := inDegree[n.ID]; dup {
			continue
		}
		inDegree[n.ID] = 0
		ids = append(ids, n.ID)
	}

	adj := make(map[string][]string)
	for _, e := range g.Edges {
		_, okS := inDegree[e.Source]
		_, okT := inDegree[e.Target]
		if !okS || !okT {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		inDegree[e.Target]++
	}

	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range adj[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order, len(ids)
}
