package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned by TryLock when another holder owns the key.
var ErrLockHeld = errors.New("lock held by another caller")

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets the session manager reject concurrent calls against one session across replicas.
type DistributedLocker interface {
	// TryLock attempts to acquire the lock for key once, without waiting.
	// Returns ErrLockHeld if someone else holds it. The TTL bounds a crashed holder.
	// The returned UnlockFunc MUST be called to release the lock.
	TryLock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
