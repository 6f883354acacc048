package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/ussdsim"
	"github.com/aretw0/ussdsim/internal/config"
	"github.com/aretw0/ussdsim/pkg/adapters/memory"
	"github.com/aretw0/ussdsim/pkg/adapters/redis"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/devices"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/observability"
	"github.com/aretw0/ussdsim/pkg/ports"
	"github.com/aretw0/ussdsim/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoSharedStore is returned by commands that need Redis when none is configured.
var ErrNoSharedStore = errors.New("no shared session store configured (set USSDSIM_REDIS_ADDR or redis.addr)")

// StackOptions tunes how the stack is assembled.
type StackOptions struct {
	// NoDelay disables the simulated network delays.
	NoDelay bool
	// Metrics registers Prometheus collectors on a fresh registry.
	Metrics bool
	// LogEvents writes one log line per dial, selection and end.
	LogEvents bool
}

// Stack holds everything the commands share.
type Stack struct {
	Config   *config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Devices  *devices.Registry
	Engine   *ussdsim.Engine
	Store    ports.SessionStore
	Sessions *session.Manager
	Registry *prometheus.Registry

	redis *redis.Store
}

// NewStack builds the simulator from cfg with CLI conventions.
// Sessions are kept in Redis when an address is configured, in process memory otherwise.
func NewStack(cfg *config.Config, opts StackOptions) (*Stack, error) {
	st := &Stack{
		Config: cfg,
		Logger: cfg.Logger(),
	}

	var err error
	if st.Catalog, err = loadCatalog(cfg.Catalog); err != nil {
		return nil, err
	}
	if st.Devices, err = loadDevices(cfg.Devices); err != nil {
		return nil, err
	}

	var hooks []domain.LifecycleHooks
	if opts.Metrics {
		st.Registry = prometheus.NewRegistry()
		hooks = append(hooks, observability.NewMetrics(st.Registry).Hooks())
	}
	if opts.LogEvents {
		hooks = append(hooks, observability.LogHooks(st.Logger))
	}

	dial, sel := cfg.Delay.Dial, cfg.Delay.Select
	if opts.NoDelay {
		dial, sel = 0, 0
	}

	st.Engine, err = ussdsim.New(
		ussdsim.WithCatalog(st.Catalog),
		ussdsim.WithDevices(st.Devices),
		ussdsim.WithLogger(st.Logger),
		ussdsim.WithLifecycleHooks(domain.ComposeHooks(hooks...)),
		ussdsim.WithDelays(dial, sel),
	)
	if err != nil {
		return nil, err
	}

	managerOpts := []session.Option{session.WithLogger(st.Logger)}
	if cfg.Redis.Addr != "" {
		st.redis = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		st.Store = st.redis
		managerOpts = append(managerOpts,
			session.WithLocker(redis.NewLocker(st.redis.Client(), st.redis.Prefix())),
			session.WithLockTTL(cfg.Redis.LockTTL),
		)
	} else {
		st.Store = memory.NewStore()
	}
	st.Sessions = session.NewManager(st.Engine.Runtime(), st.Store, managerOpts...)
	return st, nil
}

// Shared reports whether sessions live in Redis.
func (s *Stack) Shared() bool {
	return s.redis != nil
}

// Ping checks the shared store, when there is one.
func (s *Stack) Ping(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Ping(ctx); err != nil {
		return fmt.Errorf("redis %s unreachable: %w", s.Config.Redis.Addr, err)
	}
	return nil
}

// Close releases the Redis client.
func (s *Stack) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func loadDevices(path string) (*devices.Registry, error) {
	if path == "" {
		return devices.Default(), nil
	}
	return devices.Load(path)
}
