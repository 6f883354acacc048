package domain

import "slices"

// Reserved option keys.
const (
	KeyExit = "0"
	KeyBack = "9"
)

// Option is a numbered entry of a USSD menu.
type Option struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// Response is one screen returned by the (simulated) network.
// It is treated as an immutable value: history keeps the exact screens shown.
type Response struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
	IsMenu    bool     `json:"is_menu"`
	Options   []Option `json:"options,omitempty"`
}

// NewResponse builds a Response, deriving IsMenu from the option set.
// The options slice is copied so later changes by the caller are not observed.
func NewResponse(sessionID, message string, options ...Option) Response {
	return Response{
		SessionID: sessionID,
		Message:   message,
		IsMenu:    len(options) > 0,
		Options:   slices.Clone(options),
	}
}

// Clone returns a copy of r that shares no option storage with it.
func (r Response) Clone() Response {
	r.Options = slices.Clone(r.Options)
	return r
}

// WithSessionID returns a copy of r bound to the given session.
func (r Response) WithSessionID(id string) Response {
	r = r.Clone()
	r.SessionID = id
	return r
}

// HasOption reports whether key is part of the option set.
func (r Response) HasOption(key string) bool {
	return slices.ContainsFunc(r.Options, func(o Option) bool { return o.Key == key })
}

// OffersBack reports whether the screen carries a back option.
func (r Response) OffersBack() bool {
	return r.HasOption(KeyBack)
}

// Keys returns the option keys in display order.
func (r Response) Keys() []string {
	keys := make([]string, 0, len(r.Options))
	for _, o := range r.Options {
		keys = append(keys, o.Key)
	}
	return keys
}

// Equal reports value equality, including option order.
func (r Response) Equal(other Response) bool {
	return r.SessionID == other.SessionID &&
		r.Message == other.Message &&
		r.IsMenu == other.IsMenu &&
		slices.Equal(r.Options, other.Options)
}

// ShortID returns the last 8 characters of the session ID, as shown on handset badges.
func (r Response) ShortID() string {
	if len(r.SessionID) <= 8 {
		return r.SessionID
	}
	return r.SessionID[len(r.SessionID)-8:]
}
