package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can keep a session locked.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
	busy bool // guarded by Manager.mu
}

// Manager orchestrates session access, ensuring one operation per session at a time.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	engine ports.StatelessEngine
	store  ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Session Manager running engine over snapshots kept in store.
func NewManager(engine ports.StatelessEngine, store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		engine:  engine,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dial starts a new session and stores its first screen.
func (m *Manager) Dial(ctx context.Context, rawCode string, operator domain.OperatorContext) (*domain.Session, error) {
	next, err := m.engine.Dial(ctx, nil, rawCode, operator)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, next.ID, next); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	m.logger.Info("session started", "session_id", next.ID, "code", next.DialCode, "operator", operator.Name)
	return next, nil
}

// Select applies key to the stored session.
// A session that ends is removed from the store; the returned snapshot is idle.
func (m *Manager) Select(ctx context.Context, sessionID, key string) (*domain.Session, domain.Outcome, error) {
	return m.advance(ctx, sessionID, func(s *domain.Session) (*domain.Session, domain.Outcome, error) {
		return m.engine.Select(ctx, s, key)
	})
}

// Close acknowledges the terminal screen of the stored session and removes it.
func (m *Manager) Close(ctx context.Context, sessionID string) (*domain.Session, domain.Outcome, error) {
	return m.advance(ctx, sessionID, func(s *domain.Session) (*domain.Session, domain.Outcome, error) {
		return m.engine.Close(ctx, s)
	})
}

func (m *Manager) advance(ctx context.Context, sessionID string, step func(*domain.Session) (*domain.Session, domain.Outcome, error)) (*domain.Session, domain.Outcome, error) {
	var (
		next *domain.Session
		out  domain.Outcome
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		next, out, err = step(current)
		if err != nil {
			return err
		}
		if out.Ended {
			m.logger.Info("session ended", "session_id", sessionID, "reason", out.Reason)
			return m.store.Delete(ctx, sessionID)
		}
		return m.store.Save(ctx, sessionID, next)
	})
	if err != nil {
		return nil, domain.Outcome{}, err
	}
	return next, out, nil
}

// Load retrieves a session from the store.
// A session with an operation in flight on this replica is reported as awaiting_response.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if m.pending(sessionID) {
		s = s.Clone()
		s.Status = domain.StatusAwaitingResponse
	}
	return s, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
// It never waits: if the session is busy it returns domain.ErrOperationInProgress.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	defer m.release(sessionID)

	if !entry.mu.TryLock() {
		return domain.ErrOperationInProgress
	}
	m.setBusy(entry, true)
	defer func() {
		m.setBusy(entry, false)
		entry.mu.Unlock()
	}()

	if m.locker != nil {
		unlock, err := m.locker.TryLock(ctx, sessionID, m.lockTTL)
		if errors.Is(err, ports.ErrLockHeld) {
			return domain.ErrOperationInProgress
		}
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The caller's context may be cancelled by now; the unlock must still go out.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must call release(sessionID) when done with the entry.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) setBusy(entry *lockEntry, busy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.busy = busy
}

func (m *Manager) pending(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.locks[sessionID]
	return ok && entry.busy
}
