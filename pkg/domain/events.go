package domain

import "time"

// EventType defines the category of a graph change event.
type EventType string

const (
	EventNodeAdded     EventType = "node_added"
	EventNodeUpdated   EventType = "node_updated"
	EventNodesChanged  EventType = "nodes_changed"
	EventEdgeAdded     EventType = "edge_added"
	EventEdgesChanged  EventType = "edges_changed"
	EventGraphReplaced EventType = "graph_replaced"
)

// Event is published synchronously to store subscribers after a mutation completes.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	NodeIDs   []string  `json:"node_ids,omitempty"`
	EdgeIDs   []string  `json:"edge_ids,omitempty"`
	Key       string    `json:"key,omitempty"` // Field key for EventNodeUpdated.
}
