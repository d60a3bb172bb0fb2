package store

import (
	"fmt"

	"github.com/aretw0/flowboard/pkg/domain"
)

// ApplyNodeChanges merges partial updates into the node collection and returns how many applied.
// Changes referring to unknown ids are skipped. Removing a node also removes its incident edges.
func (s *Store) ApplyNodeChanges(changes []domain.NodeChange) int {
	if len(changes) == 0 {
		return 0
	}

	s.mu.Lock()
	var touched, removedEdges []string
	for _, ch := range changes {
		i := s.nodeIndex(ch.ID)
		if i < 0 {
			continue
		}

		switch ch.Type {
		case domain.ChangePosition:
			if ch.Position == nil {
				continue
			}
			s.nodes[i].Position = *ch.Position
		case domain.ChangeDimensions:
			if ch.Width == nil && ch.Height == nil {
				continue
			}
			if ch.Width != nil {
				w := *ch.Width
				s.nodes[i].Width = &w
			}
			if ch.Height != nil {
				h := *ch.Height
				s.nodes[i].Height = &h
			}
		case domain.ChangeSelect:
			if ch.Selected == nil {
				continue
			}
			s.nodes[i].Selected = *ch.Selected
		case domain.ChangeRemove:
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			removedEdges = append(removedEdges, s.dropIncident(ch.ID)...)
		default:
			continue
		}
		touched = append(touched, ch.ID)
	}

	if len(touched) > 0 {
		s.queue(domain.Event{Type: domain.EventNodesChanged, NodeIDs: touched, EdgeIDs: removedEdges})
	}
	s.mu.Unlock()

	s.flush()
	return len(touched)
}

// dropIncident removes every edge attached to nodeID and returns their ids.
func (s *Store) dropIncident(nodeID string) []string {
	var removed []string
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source == nodeID || e.Target == nodeID {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return removed
}

// Connect appends an edge for the candidate with a fresh id.
// Endpoints and handles are not checked against the graph; only empty endpoints are refused.
func (s *Store) Connect(c domain.Connection) (domain.Edge, error) {
	if c.Source == "" || c.Target == "" {
		return domain.Edge{}, fmt.Errorf("connect: missing endpoint: %w", domain.ErrInvalidConnection)
	}

	s.mu.Lock()
	e := domain.Edge{
		ID:           s.newIDLocked(domain.EdgeIDPrefix),
		Source:       c.Source,
		SourceHandle: c.SourceHandle,
		Target:       c.Target,
		TargetHandle: c.TargetHandle,
	}
	s.edges = append(s.edges, e)
	s.queue(domain.Event{Type: domain.EventEdgeAdded, EdgeIDs: []string{e.ID}})
	s.mu.Unlock()

	s.flush()
	return e, nil
}

// ApplyEdgeChanges merges select/remove updates into the edge collection and returns how many applied.
func (s *Store) ApplyEdgeChanges(changes []domain.EdgeChange) int {
	if len(changes) == 0 {
		return 0
	}

	s.mu.Lock()
	var touched []string
	for _, ch := range changes {
		i := s.edgeIndex(ch.ID)
		if i < 0 {
			continue
		}
		switch ch.Type {
		case domain.ChangeSelect:
			if ch.Selected == nil {
				continue
			}
			s.edges[i].Selected = *ch.Selected
		case domain.ChangeRemove:
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
		default:
			continue
		}
		touched = append(touched, ch.ID)
	}

	if len(touched) > 0 {
		s.queue(domain.Event{Type: domain.EventEdgesChanged, EdgeIDs: touched})
	}
	s.mu.Unlock()

	s.flush()
	return len(touched)
}

// RemoveEdge deletes a single edge.
func (s *Store) RemoveEdge(id string) error {
	if s.ApplyEdgeChanges([]domain.EdgeChange{{ID: id, Type: domain.ChangeRemove}}) == 0 {
		return fmt.Errorf("remove edge %q: %w", id, domain.ErrEdgeNotFound)
	}
	return nil
}
