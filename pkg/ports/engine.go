package ports

import (
	"context"

	"github.com/aretw0/ussdsim/pkg/domain"
)

// StatelessEngine defines the interface for navigation cores that do not hold session state.
// Every method takes a snapshot and returns the next one; the input is never modified.
type StatelessEngine interface {
	// Dial starts a session from an idle snapshot.
	Dial(ctx context.Context, session *domain.Session, rawCode string, operator domain.OperatorContext) (*domain.Session, error)

	// Select applies an option key to the displayed screen.
	Select(ctx context.Context, session *domain.Session, key string) (*domain.Session, domain.Outcome, error)

	// Close acknowledges a terminal screen and ends the session.
	Close(ctx context.Context, session *domain.Session) (*domain.Session, domain.Outcome, error)
}
