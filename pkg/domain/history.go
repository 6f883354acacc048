package domain

import "slices"

// History is the stack of screens shown in a session, root first.
// The last element is always the screen currently displayed.
type History []Response

// Depth returns the number of screens on the stack.
func (h History) Depth() int { return len(h) }

// Top returns the current screen.
func (h History) Top() (Response, bool) {
	if len(h) == 0 {
		return Response{}, false
	}
	return h[len(h)-1], true
}

// Push returns a new history with r on top. The receiver is not modified.
func (h History) Push(r Response) History {
	next := make(History, len(h), len(h)+1)
	copy(next, h)
	return append(next, r)
}

// Pop returns a new history without the top screen. The receiver is not modified.
func (h History) Pop() History {
	if len(h) == 0 {
		return nil
	}
	return slices.Clone(h[:len(h)-1])
}

// Clone returns an independent copy.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	next := make(History, len(h))
	for i, r := range h {
		next[i] = r.Clone()
	}
	return next
}
