package ports

import "github.com/aretw0/ussdsim/pkg/domain"

// Catalog defines how the engine obtains screens.
// It is advisory data: the engine enforces the navigation rules.
type Catalog interface {
	// ResolveRoot returns the first screen for code, with a fresh session ID.
	// Unknown codes yield a terminal fallback screen, never an error.
	ResolveRoot(code domain.DialCode, operator string) domain.Response

	// ResolveNext returns the screen reached by selecting key at the given history depth.
	// The returned screen carries no session ID; the engine binds it.
	ResolveNext(code domain.DialCode, depth int, key, operator string) domain.Response
}

// Inspectable is implemented by catalogs that can enumerate their known codes.
type Inspectable interface {
	Knows(code domain.DialCode) bool
}

// IDGenerator mints session identifiers.
type IDGenerator interface {
	NewID() string
}
