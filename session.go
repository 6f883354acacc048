package ussdsim

import (
	"context"
	"sync"

	"github.com/aretw0/ussdsim/pkg/domain"
)

// Session is a single-user handle over one simulated handset.
//
// It holds the committed snapshot. While a dial or selection is pending, Status reports
// awaiting_response and any other call fails with domain.ErrOperationInProgress.
// Session is safe for concurrent use, but only one operation runs at a time.
type Session struct {
	engine *Engine

	mu      sync.Mutex
	pending bool
	snap    *domain.Session
}

// Dial submits code on the network named operator.
func (s *Session) Dial(ctx context.Context, code, operator string) (domain.Response, error) {
	return s.dial(ctx, code, domain.OperatorContext{Name: operator})
}

// DialFrom submits code from the SIM in slot of the given device.
// Missing device or SIM selections are rejected before anything is sent.
func (s *Session) DialFrom(ctx context.Context, deviceID, slot, code string) (domain.Response, error) {
	op, err := s.engine.ResolveOperator(deviceID, slot)
	if err != nil {
		return domain.Response{}, err
	}
	return s.dial(ctx, code, op)
}

func (s *Session) dial(ctx context.Context, code string, op domain.OperatorContext) (domain.Response, error) {
	snap, err := s.begin()
	if err != nil {
		return domain.Response{}, err
	}
	next, err := s.engine.runtime.Dial(ctx, snap, code, op)
	s.commit(next)
	if err != nil {
		return domain.Response{}, err
	}
	root, _ := next.Current()
	return root, nil
}

// Select sends key in reply to the displayed screen.
func (s *Session) Select(ctx context.Context, key string) (domain.Outcome, error) {
	snap, err := s.begin()
	if err != nil {
		return domain.Outcome{}, err
	}
	next, out, err := s.engine.runtime.Select(ctx, snap, key)
	s.commit(next)
	return out, err
}

// Close acknowledges a terminal screen.
func (s *Session) Close(ctx context.Context) (domain.Outcome, error) {
	snap, err := s.begin()
	if err != nil {
		return domain.Outcome{}, err
	}
	next, out, err := s.engine.runtime.Close(ctx, snap)
	s.commit(next)
	return out, err
}

// Status returns the current state, awaiting_response while an operation is pending.
func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return domain.StatusAwaitingResponse
	}
	return s.snap.Status
}

// ID returns the network session ID (empty while idle).
func (s *Session) ID() string {
	return s.Snapshot().ID
}

// Current returns the displayed screen.
func (s *Session) Current() (domain.Response, bool) {
	return s.Snapshot().Current()
}

// History returns a copy of the screens shown since the dial.
func (s *Session) History() domain.History {
	return s.Snapshot().History
}

// CanGoBack reports whether "9" would return to a previous screen.
func (s *Session) CanGoBack() bool {
	return s.Snapshot().CanGoBack()
}

// Snapshot returns a copy of the committed snapshot.
func (s *Session) Snapshot() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

func (s *Session) begin() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return nil, domain.ErrOperationInProgress
	}
	s.pending = true
	return s.snap, nil
}

// commit installs next, if any, and releases the pending flag.
// The engine never mutates its input, so a failed call leaves the previous snapshot.
func (s *Session) commit(next *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next != nil {
		s.snap = next
	}
	s.pending = false
}
