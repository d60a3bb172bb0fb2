package ports

import (
	"context"

	"github.com/aretw0/flowboard/pkg/domain"
)

// GraphStore persists graph snapshots, one per editing session.
type GraphStore interface {
	// Save stores the graph for sessionID, replacing any previous snapshot.
	Save(ctx context.Context, sessionID string, g domain.Graph) error

	// Load retrieves the snapshot for sessionID.
	// Returns domain.ErrSessionNotFound if there is none.
	Load(ctx context.Context, sessionID string) (domain.Graph, error)

	// Delete removes the snapshot. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
