package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// Engine is the core navigation state machine.
// It holds no session state: every call takes a snapshot and returns the next one.
type Engine struct {
	catalog     ports.Catalog
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	dialDelay   time.Duration
	selectDelay time.Duration
	now         func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDelays sets the simulated network latency before a dial and before a menu selection is answered.
func WithDelays(dial, selection time.Duration) EngineOption {
	return func(e *Engine) {
		e.dialDelay = dial
		e.selectDelay = selection
	}
}

// WithClock overrides the time source used for session start times and events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine backed by catalog.
func NewEngine(catalog ports.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.StatelessEngine = (*Engine)(nil)

// Dial starts a session. Valid only from an idle snapshot.
// The dial code is validated before the simulated network round trip.
func (e *Engine) Dial(ctx context.Context, session *domain.Session, rawCode string, operator domain.OperatorContext) (*domain.Session, error) {
	if session == nil {
		session = domain.NewIdleSession()
	}
	if session.Status != domain.StatusIdle {
		return nil, e.reject(ctx, session, "dial", &domain.TransitionError{Op: "dial", Status: session.Status})
	}

	code, err := domain.ParseDialCode(rawCode)
	if err != nil {
		return nil, e.reject(ctx, session, "dial", err)
	}

	if err := e.wait(ctx, e.dialDelay); err != nil {
		return nil, err
	}

	root := e.catalog.ResolveRoot(code, operator.Name)
	next := &domain.Session{
		ID:        root.SessionID,
		DialCode:  code,
		Operator:  operator,
		Status:    domain.StatusFor(root),
		History:   domain.History{root},
		StartedAt: e.now(),
	}

	e.logger.Debug("dial answered",
		"session_id", next.ID,
		"code", code,
		"operator", operator.Name,
		"is_menu", root.IsMenu)
	e.emitDial(ctx, next, root)
	return next, nil
}

// Select applies key to the displayed screen.
//
// On a menu, key must be one of the offered options. "0" ends the session, "9" returns to
// the previous screen when there is one, anything else asks the catalog for the next screen.
// On a terminal screen, "0" is the implicit close action.
func (e *Engine) Select(ctx context.Context, session *domain.Session, key string) (*domain.Session, domain.Outcome, error) {
	status := domain.StatusIdle
	if session != nil {
		status = session.Status
	}

	switch status {
	case domain.StatusMenuDisplayed:
	case domain.StatusTerminalDisplayed:
		if key == domain.KeyExit {
			return e.Close(ctx, session)
		}
		fallthrough
	default:
		return nil, domain.Outcome{}, e.reject(ctx, session, "select", &domain.TransitionError{Op: "select an option", Status: status})
	}

	current, _ := session.Current()
	if !current.HasOption(key) {
		return nil, domain.Outcome{}, e.reject(ctx, session, "select", &domain.UnknownOptionError{Key: key, Allowed: current.Keys()})
	}

	if err := e.wait(ctx, e.selectDelay); err != nil {
		return nil, domain.Outcome{}, err
	}

	switch {
	case key == domain.KeyExit:
		e.emitSelect(ctx, session, key, domain.SelectExit, session.Depth())
		return e.end(ctx, session, domain.EndExit)
	case key == domain.KeyBack && session.Depth() > 1:
		return e.back(ctx, session)
	default:
		return e.forward(ctx, session, key)
	}
}

// Close acknowledges a terminal screen and ends the session.
func (e *Engine) Close(ctx context.Context, session *domain.Session) (*domain.Session, domain.Outcome, error) {
	if session == nil || session.Status != domain.StatusTerminalDisplayed {
		status := domain.StatusIdle
		if session != nil {
			status = session.Status
		}
		return nil, domain.Outcome{}, e.reject(ctx, session, "close", &domain.TransitionError{Op: "close", Status: status})
	}
	return e.end(ctx, session, domain.EndClosed)
}
