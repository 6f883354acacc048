package ports

import (
	"context"

	"github.com/aretw0/ussdsim/pkg/domain"
)

// SessionStore defines the interface for keeping session snapshots between requests.
// Adapters that serve several users (HTTP, MCP) use it; the single-user handle does not.
type SessionStore interface {
	// Save stores the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the active sessions.
	List(ctx context.Context) ([]string, error)
}
