package runner

import "strings"

// Keypad buffers what the user types while no session is active.
//
// With AutoDial set, the buffer is dialed as soon as it ends with "#", the way a handset
// sends USSD strings without pressing Call. Send is the Call button.
type Keypad struct {
	AutoDial bool
	buf      strings.Builder
}

// Press appends keys. It returns the buffered code when auto-dial fires.
func (k *Keypad) Press(keys string) (string, bool) {
	k.buf.WriteString(keys)
	if k.AutoDial && strings.HasSuffix(k.buf.String(), "#") {
		return k.Send()
	}
	return "", false
}

// Send returns the buffer and clears it. It reports false when nothing was typed.
func (k *Keypad) Send() (string, bool) {
	code := k.buf.String()
	k.buf.Reset()
	return code, code != ""
}

// Clear discards the buffer.
func (k *Keypad) Clear() {
	k.buf.Reset()
}

// Buffer returns what has been typed so far.
func (k *Keypad) Buffer() string {
	return k.buf.String()
}
