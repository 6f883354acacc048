package tui

import (
	"testing"

	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryMarkdown(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	entry, ok := c.Entry("*131#")
	require.True(t, ok)

	md := EntryMarkdown(entry)
	assert.Contains(t, md, "# *131#")
	assert.Contains(t, md, "**Data Topup**")
	assert.Contains(t, md, "${operator} Data Bundles")
	assert.Contains(t, md, "### Depth 2, key 4")
	assert.Contains(t, md, "- `9` Back")
}

func TestEntryMarkdown_Terminal(t *testing.T) {
	md := EntryMarkdown(catalog.Entry{Code: "*1#", Template: catalog.Template{Message: "Done."}})
	assert.Contains(t, md, "_Final screen._")
	assert.NotContains(t, md, "## Selections")
}

func TestScreenRenderer_AsciiMatchesPlain(t *testing.T) {
	screen := runner.Screen{
		Response: domain.NewResponse("0123456789abcdef", "Welcome\n\n1. One\n0. Exit",
			domain.Option{Key: "1", Text: "One"},
			domain.Option{Key: "0", Text: "Exit"},
		),
		Operator: domain.OperatorContext{Name: "Orange", DeviceName: "iPhone 14", SIMSlot: "Physical SIM"},
	}

	got := ScreenRenderer(termenv.Ascii)(screen)
	assert.Equal(t, runner.PlainScreen(screen), got)
	assert.Contains(t, got, "Session ...89abcdef")
}

func TestNewRenderer(t *testing.T) {
	out, err := NewRenderer()("# Title")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
