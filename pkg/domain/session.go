package domain

import "time"

// Status defines where a session is in the navigation state machine.
type Status string

const (
	StatusIdle              Status = "idle"               // No active session
	StatusAwaitingResponse  Status = "awaiting_response"  // Request sent, network reply pending
	StatusMenuDisplayed     Status = "menu_displayed"     // Current screen has options
	StatusTerminalDisplayed Status = "terminal_displayed" // Current screen has no options, waiting for close
)

// EndReason explains why a session ended.
type EndReason string

const (
	EndExit   EndReason = "exit"   // User selected "0" on a menu
	EndClosed EndReason = "closed" // User acknowledged a terminal screen
)

// Session represents the current snapshot of a USSD session.
type Session struct {
	// ID is shared by every screen of one top-level dial. Empty while idle.
	ID string `json:"id,omitempty"`

	DialCode DialCode        `json:"dial_code,omitempty"`
	Operator OperatorContext `json:"operator"`
	Status   Status          `json:"status"`

	// History holds the screens shown since the root dial; its top is the current screen.
	History History `json:"history,omitempty"`

	StartedAt time.Time `json:"started_at,omitempty"`
}

// NewIdleSession returns a session with no active dial.
func NewIdleSession() *Session {
	return &Session{Status: StatusIdle}
}

// Active reports whether a dial has been answered and not yet ended.
func (s *Session) Active() bool {
	return s != nil && (s.Status == StatusMenuDisplayed || s.Status == StatusTerminalDisplayed)
}

// Depth returns the history depth (0 while idle).
func (s *Session) Depth() int {
	if s == nil {
		return 0
	}
	return s.History.Depth()
}

// Current returns the displayed screen.
func (s *Session) Current() (Response, bool) {
	if s == nil {
		return Response{}, false
	}
	return s.History.Top()
}

// CanGoBack reports whether the current screen offers "9" and there is a screen to return to.
func (s *Session) CanGoBack() bool {
	cur, ok := s.Current()
	return ok && cur.OffersBack() && s.Depth() > 1
}

// Clone creates a deep copy safe for mutation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.History = s.History.Clone()
	return &next
}

// StatusFor returns the displayed status for a screen.
func StatusFor(r Response) Status {
	if r.IsMenu {
		return StatusMenuDisplayed
	}
	return StatusTerminalDisplayed
}

// Outcome is the result of a navigation step: either a new screen or the end of the session.
type Outcome struct {
	Response Response  `json:"response"`
	Ended    bool      `json:"ended"`
	Reason   EndReason `json:"reason,omitempty"`
}
