package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/runner"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// EntryMarkdown describes a catalog entry, its root screen and its known follow-ups.
// Screens are shown with ${operator} left in place.
func EntryMarkdown(e catalog.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Code)
	if e.Description != "" {
		fmt.Fprintf(&b, "**%s**", e.Description)
		if e.Category != "" {
			fmt.Fprintf(&b, " · _%s_", e.Category)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("## Root screen\n\n")
	writeScreen(&b, e.Message, e.Options)

	if len(e.Next) > 0 {
		b.WriteString("## Selections\n\n")
		for _, s := range e.Next {
			fmt.Fprintf(&b, "### Depth %d, key %s\n\n", s.Depth, s.Key)
			writeScreen(&b, s.Message, s.Options)
		}
	}
	return b.String()
}

func writeScreen(b *strings.Builder, message string, options []domain.Option) {
	b.WriteString("```\n")
	b.WriteString(strings.TrimRight(message, "\n"))
	b.WriteString("\n```\n\n")
	if len(options) == 0 {
		b.WriteString("_Final screen._\n\n")
		return
	}
	for _, o := range options {
		fmt.Fprintf(b, "- `%s` %s\n", o.Key, o.Text)
	}
	b.WriteString("\n")
}

// ScreenRenderer colours console screens for the given profile.
// termenv.Ascii yields the same text as runner.PlainScreen, without escape codes.
func ScreenRenderer(p termenv.Profile) runner.ScreenRenderer {
	return func(s runner.Screen) string {
		header := runner.PlainScreen(runner.Screen{Response: domain.Response{SessionID: s.Response.SessionID}, Operator: s.Operator})
		header = strings.TrimRight(header, "\n")

		var b strings.Builder
		b.WriteString(p.String(header).Foreground(p.Color("#38bdf8")).Bold().String())
		b.WriteString("\n")

		optionPrefixes := make(map[string]bool, len(s.Response.Options))
		for _, o := range s.Response.Options {
			optionPrefixes[o.Key+"."] = true
		}
		for i, line := range strings.Split(s.Response.Message, "\n") {
			if i > 0 {
				b.WriteString("\n")
			}
			key, _, _ := strings.Cut(strings.TrimSpace(line), " ")
			if optionPrefixes[key] {
				b.WriteString(p.String(line).Foreground(p.Color("#fbbf24")).String())
				continue
			}
			b.WriteString(line)
		}
		return b.String()
	}
}
