package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the console banner with the given version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _   _ ___ ___ ___     _       ", "#34d399"},
		{" | | | / __/ __|   \\ __(_)_ __  ", "#2dd4bf"},
		{" | |_| \\__ \\__ \\ |) (_-< | '  \\ ", "#22d3ee"},
		{"  \\___/|___/___/___//__/_|_|_|_|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  USSD session simulator "+version).Faint())
	fmt.Fprintln(w)
}
