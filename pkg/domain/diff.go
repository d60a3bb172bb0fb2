package domain

import (
	"reflect"
	"sort"
)

// GraphDiff represents the changes between two graph snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type GraphDiff struct {
	AddedNodes   []string `json:"added_nodes,omitempty"`
	RemovedNodes []string `json:"removed_nodes,omitempty"`

	// UpdatedNodes lists nodes whose type, position or data changed.
	UpdatedNodes []string `json:"updated_nodes,omitempty"`

	AddedEdges   []string `json:"added_edges,omitempty"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
}

// Diff calculates the difference between oldGraph and newGraph.
// If oldGraph is nil, every node and edge of newGraph is reported as added (initial load).
// Ids in each list are sorted for deterministic output.
func Diff(oldGraph, newGraph *Graph) *GraphDiff {
	if newGraph == nil {
		return nil
	}
	if oldGraph == nil {
		oldGraph = &Graph{}
	}

	diff := &GraphDiff{}

	oldNodes := make(map[string]Node, len(oldGraph.Nodes))
	for _, n := range oldGraph.Nodes {
		oldNodes[n.ID] = n
	}
	seen := make(map[string]bool, len(newGraph.Nodes))
	for _, n := range newGraph.Nodes {
		seen[n.ID] = true
		prev, ok := oldNodes[n.ID]
		if !ok {
			diff.AddedNodes = append(diff.AddedNodes, n.ID)
			continue
		}
		if prev.Type != n.Type || prev.Position != n.Position || !reflect.DeepEqual(prev.Data, n.Data) {
			diff.UpdatedNodes = append(diff.UpdatedNodes, n.ID)
		}
	}
	for id := range oldNodes {
		if !seen[id] {
			diff.RemovedNodes = append(diff.RemovedNodes, id)
		}
	}

	oldEdges := make(map[string]bool, len(oldGraph.Edges))
	for _, e := range oldGraph.Edges {
		oldEdges[e.ID] = true
	}
	newEdges := make(map[string]bool, len(newGraph.Edges))
	for _, e := range newGraph.Edges {
		newEdges[e.ID] = true
		if !oldEdges[e.ID] {
			diff.AddedEdges = append(diff.AddedEdges, e.ID)
		}
	}
	for id := range oldEdges {
		if !newEdges[id] {
			diff.RemovedEdges = append(diff.RemovedEdges, id)
		}
	}

	for _, list := range [][]string{diff.AddedNodes, diff.RemovedNodes, diff.UpdatedNodes, diff.AddedEdges, diff.RemovedEdges} {
		sort.Strings(list)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *GraphDiff) IsEmpty() bool {
	return len(d.AddedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.UpdatedNodes) == 0 &&
		len(d.AddedEdges) == 0 &&
		len(d.RemovedEdges) == 0
}
