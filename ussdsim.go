package ussdsim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/aretw0/ussdsim/internal/runtime"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/devices"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// Engine is the high-level entry point for the simulator.
// It wraps the internal runtime together with a catalog and a device registry.
type Engine struct {
	runtime     *runtime.Engine
	catalog     ports.Catalog
	devices     *devices.Registry
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	dialDelay   time.Duration
	selectDelay time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in response table.
func WithCatalog(c ports.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithDevices replaces the built-in handsets.
func WithDevices(r *devices.Registry) Option {
	return func(e *Engine) {
		e.devices = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDelays simulates network latency. Both default to zero.
func WithDelays(dial, selection time.Duration) Option {
	return func(e *Engine) {
		e.dialDelay = dial
		e.selectDelay = selection
	}
}

// New initializes a simulator. Without options it uses the built-in catalog and devices.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		eng.catalog = c
	}
	if eng.devices == nil {
		eng.devices = devices.Default()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(eng.catalog,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithDelays(eng.dialDelay, eng.selectDelay),
	)
	return eng, nil
}

// NewSession returns an idle session handle.
func (e *Engine) NewSession() *Session {
	return &Session{engine: e, snap: domain.NewIdleSession()}
}

// ResolveOperator returns the operator of the SIM in slot of deviceID.
func (e *Engine) ResolveOperator(deviceID, slot string) (domain.OperatorContext, error) {
	return e.devices.ResolveOperator(deviceID, slot)
}

// Catalog returns the response table.
func (e *Engine) Catalog() ports.Catalog {
	return e.catalog
}

// Devices returns the device registry.
func (e *Engine) Devices() *devices.Registry {
	return e.devices
}

// Runtime exposes the stateless engine for hosts that keep snapshots themselves.
func (e *Engine) Runtime() ports.StatelessEngine {
	return e.runtime
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
