package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDial   EventType = "dial"
	EventSelect EventType = "select"
	EventEnd    EventType = "end"
	EventReject EventType = "reject"
)

// SelectKind classifies an option selection.
type SelectKind string

const (
	SelectForward SelectKind = "forward"
	SelectBack    SelectKind = "back"
	SelectExit    SelectKind = "exit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// DialEvent is emitted once the root screen of a dial has been resolved.
type DialEvent struct {
	EventBase
	DialCode DialCode `json:"dial_code"`
	Operator string   `json:"operator"`
	Known    bool     `json:"known"`
	IsMenu   bool     `json:"is_menu"`
}

// SelectEvent is emitted after an option was applied.
type SelectEvent struct {
	EventBase
	DialCode DialCode   `json:"dial_code"`
	Key      string     `json:"key"`
	Kind     SelectKind `json:"kind"`
	Depth    int        `json:"depth"`
}

// EndEvent is emitted when a session returns to idle.
type EndEvent struct {
	EventBase
	DialCode DialCode      `json:"dial_code"`
	Reason   EndReason     `json:"reason"`
	Depth    int           `json:"depth"`
	Duration time.Duration `json:"duration"`
}

// RejectEvent is emitted when a call fails validation.
type RejectEvent struct {
	EventBase
	Op  string `json:"op"`
	Err error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDial   func(context.Context, *DialEvent)
	OnSelect func(context.Context, *SelectEvent)
	OnEnd    func(context.Context, *EndEvent)
	OnReject func(context.Context, *RejectEvent)
}

// ComposeHooks fans each event out to every non-nil callback, in order.
func ComposeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDial: func(ctx context.Context, e *DialEvent) {
			for _, h := range hooks {
				if h.OnDial != nil {
					h.OnDial(ctx, e)
				}
			}
		},
		OnSelect: func(ctx context.Context, e *SelectEvent) {
			for _, h := range hooks {
				if h.OnSelect != nil {
					h.OnSelect(ctx, e)
				}
			}
		},
		OnEnd: func(ctx context.Context, e *EndEvent) {
			for _, h := range hooks {
				if h.OnEnd != nil {
					h.OnEnd(ctx, e)
				}
			}
		},
		OnReject: func(ctx context.Context, e *RejectEvent) {
			for _, h := range hooks {
				if h.OnReject != nil {
					h.OnReject(ctx, e)
				}
			}
		},
	}
}
