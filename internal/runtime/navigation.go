package runtime

import (
	"context"
	"time"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// forward pushes the catalog screen for key.
func (e *Engine) forward(ctx context.Context, session *domain.Session, key string) (*domain.Session, domain.Outcome, error) {
	depth := session.Depth()
	resp := e.catalog.ResolveNext(session.DialCode, depth, key, session.Operator.Name).WithSessionID(session.ID)

	next := session.Clone()
	next.History = next.History.Push(resp)
	next.Status = domain.StatusFor(resp)

	e.logger.Debug("option selected",
		"session_id", session.ID,
		"key", key,
		"depth", next.Depth(),
		"is_menu", resp.IsMenu)
	e.emitSelect(ctx, next, key, domain.SelectForward, next.Depth())
	return next, domain.Outcome{Response: resp}, nil
}

// back pops the current screen. The new top is the exact value shown before, not a re-resolution.
func (e *Engine) back(ctx context.Context, session *domain.Session) (*domain.Session, domain.Outcome, error) {
	next := session.Clone()
	next.History = next.History.Pop()
	top, _ := next.History.Top()
	next.Status = domain.StatusFor(top)

	e.logger.Debug("navigated back", "session_id", session.ID, "depth", next.Depth())
	e.emitSelect(ctx, next, domain.KeyBack, domain.SelectBack, next.Depth())
	return next, domain.Outcome{Response: top}, nil
}

// end clears the history and returns to idle.
func (e *Engine) end(ctx context.Context, session *domain.Session, reason domain.EndReason) (*domain.Session, domain.Outcome, error) {
	last, _ := session.Current()

	e.logger.Debug("session ended", "session_id", session.ID, "reason", reason, "depth", session.Depth())
	if e.hooks.OnEnd != nil {
		e.hooks.OnEnd(ctx, &domain.EndEvent{
			EventBase: e.base(domain.EventEnd, session.ID),
			DialCode:  session.DialCode,
			Reason:    reason,
			Depth:     session.Depth(),
			Duration:  e.now().Sub(session.StartedAt),
		})
	}
	return domain.NewIdleSession(), domain.Outcome{Response: last, Ended: true, Reason: reason}, nil
}

// wait is the simulated network round trip. It is the only suspension point and it
// runs before anything is committed, so an abandoned call leaves the caller's snapshot as it was.
func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Engine) reject(ctx context.Context, session *domain.Session, op string, err error) error {
	id := ""
	if session != nil {
		id = session.ID
	}
	e.logger.Debug("call rejected", "op", op, "session_id", id, "err", err)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: e.base(domain.EventReject, id),
			Op:        op,
			Err:       err,
		})
	}
	return err
}

func (e *Engine) emitDial(ctx context.Context, session *domain.Session, root domain.Response) {
	if e.hooks.OnDial == nil {
		return
	}
	known := true
	if insp, ok := e.catalog.(ports.Inspectable); ok {
		known = insp.Knows(session.DialCode)
	}
	e.hooks.OnDial(ctx, &domain.DialEvent{
		EventBase: e.base(domain.EventDial, session.ID),
		DialCode:  session.DialCode,
		Operator:  session.Operator.Name,
		Known:     known,
		IsMenu:    root.IsMenu,
	})
}

func (e *Engine) emitSelect(ctx context.Context, session *domain.Session, key string, kind domain.SelectKind, depth int) {
	if e.hooks.OnSelect == nil {
		return
	}
	e.hooks.OnSelect(ctx, &domain.SelectEvent{
		EventBase: e.base(domain.EventSelect, session.ID),
		DialCode:  session.DialCode,
		Key:       key,
		Kind:      kind,
		Depth:     depth,
	})
}

func (e *Engine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, SessionID: sessionID}
}
