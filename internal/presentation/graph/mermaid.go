package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
)

// Node IDs shared by every entry.
const (
	RootID      = "root"
	ExitID      = "exit"
	ComingSoon  = "coming_soon"
	ProcessedID = "processed"
)

type stepID struct {
	depth int
	key   string
}

// GenerateMermaid produces a Mermaid flowchart of the screens reachable from a catalog entry.
// It applies semantic styling:
// - Menu: [Rectangle]
// - Final screen: (Rounded)
// - Fallback screen: [/Parallelogram/]
// Back selections are drawn as dotted edges to the parent screen.
func GenerateMermaid(e catalog.Entry) string {
	g := &builder{
		steps: make(map[stepID]catalog.Step, len(e.Next)),
		nodes: make(map[string]bool),
		edges: make(map[string]bool),
	}
	for _, s := range e.Next {
		g.steps[stepID{s.Depth, s.Key}] = s
	}

	g.sb.WriteString("graph TD\n")
	g.node(RootID, e.Code+"<br/>"+headline(e.Message), shapeFor(e.Options))
	g.walk(RootID, "", 1, e.Options)
	return g.sb.String()
}

type builder struct {
	sb    strings.Builder
	steps map[stepID]catalog.Step
	nodes map[string]bool
	edges map[string]bool
}

// walk draws the edges leaving a screen shown at the given history depth.
func (g *builder) walk(from, parent string, depth int, options []domain.Option) {
	for _, o := range options {
		switch o.Key {
		case domain.KeyExit:
			g.node(ExitID, "Session ended", "((")
			g.edge(from, o.Key, ExitID, false)
		case domain.KeyBack:
			if parent != "" {
				g.edge(from, o.Key, parent, true)
			}
		default:
			step, ok := g.steps[stepID{depth, o.Key}]
			if !ok {
				to, label := ComingSoon, "Feature coming soon"
				if depth > 1 {
					to, label = ProcessedID, "Transaction processed"
				}
				g.node(to, label, "[/")
				g.edge(from, o.Key, to, false)
				continue
			}
			to := fmt.Sprintf("d%d_k%s", depth, sanitizeMermaidID(o.Key))
			first := g.node(to, headline(step.Message), shapeFor(step.Options))
			g.edge(from, o.Key, to, false)
			if first {
				g.walk(to, from, depth+1, step.Options)
			}
		}
	}
}

// node writes a node once and reports whether it was new.
func (g *builder) node(id, label, opener string) bool {
	if g.nodes[id] {
		return false
	}
	g.nodes[id] = true
	closer := map[string]string{"[": "]", "(": ")", "((": "))", "[/": "/]"}[opener]
	fmt.Fprintf(&g.sb, "    %s%s\"%s\"%s\n", id, opener, strings.ReplaceAll(label, "\"", "'"), closer)
	return true
}

func (g *builder) edge(from, key, to string, back bool) {
	arrow := fmt.Sprintf("-- \"%s\" -->", key)
	if back {
		arrow = fmt.Sprintf("-. \"%s\" .->", key)
	}
	line := fmt.Sprintf("    %s %s %s\n", from, arrow, to)
	if g.edges[line] {
		return
	}
	g.edges[line] = true
	g.sb.WriteString(line)
}

func shapeFor(options []domain.Option) string {
	if len(options) > 0 {
		return "["
	}
	return "("
}

// headline is the first non-empty line of a message.
func headline(message string) string {
	for _, line := range strings.Split(message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "*", "_")
	s = strings.ReplaceAll(s, "#", "_")
	return s
}
