package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_AutoDial(t *testing.T) {
	k := Keypad{AutoDial: true}

	_, ready := k.Press("*1")
	assert.False(t, ready)
	_, ready = k.Press("00")
	assert.False(t, ready)
	assert.Equal(t, "*100", k.Buffer())

	code, ready := k.Press("#")
	assert.True(t, ready)
	assert.Equal(t, "*100#", code)
	assert.Empty(t, k.Buffer())
}

func TestKeypad_Send(t *testing.T) {
	k := Keypad{}

	_, ready := k.Send()
	assert.False(t, ready, "nothing to send")

	_, ready = k.Press("*123#")
	assert.False(t, ready, "auto-dial disabled")

	code, ready := k.Send()
	assert.True(t, ready)
	assert.Equal(t, "*123#", code)

	k.Press("*9")
	k.Clear()
	assert.Empty(t, k.Buffer())
}

func TestPlainScreen(t *testing.T) {
	s := PlainScreen(Screen{})
	assert.Equal(t, "[]\n", s)
}
