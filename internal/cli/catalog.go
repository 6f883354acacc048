package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/ussdsim/internal/presentation/graph"
	"github.com/aretw0/ussdsim/internal/presentation/tui"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
)

// PrintCatalog writes the entries as a table.
func PrintCatalog(w io.Writer, entries []catalog.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No codes found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tDESCRIPTION\tCATEGORY\tKIND")
	for _, e := range entries {
		kind := "terminal"
		if len(e.Options) > 0 {
			kind = fmt.Sprintf("menu (%d)", len(e.Options))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Code, e.Description, e.Category, kind)
	}
	return tw.Flush()
}

func lookup(c *catalog.Catalog, rawCode string) (catalog.Entry, error) {
	code, err := domain.ParseDialCode(rawCode)
	if err != nil {
		return catalog.Entry{}, err
	}
	entry, ok := c.Entry(code)
	if !ok {
		return catalog.Entry{}, fmt.Errorf("code %s is not in the catalog", code)
	}
	return entry, nil
}

// ShowEntry writes one catalog entry. Rich output goes through glamour.
func ShowEntry(w io.Writer, c *catalog.Catalog, rawCode string, rich bool) error {
	entry, err := lookup(c, rawCode)
	if err != nil {
		return err
	}

	md := tui.EntryMarkdown(entry)
	if rich {
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
	}
	_, err = fmt.Fprint(w, md)
	return err
}

// GraphEntry writes the menu tree of a code as a Mermaid flowchart.
func GraphEntry(w io.Writer, c *catalog.Catalog, rawCode string) error {
	entry, err := lookup(c, rawCode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(entry))
	return err
}

// ValidateCatalog loads path and reports a summary.
func ValidateCatalog(w io.Writer, path string) error {
	c, err := catalog.Load(path)
	if err != nil {
		return err
	}
	entries := c.Entries()
	steps := 0
	for _, e := range entries {
		steps += len(e.Next)
	}
	_, err = fmt.Fprintf(w, "%s: %d codes, %d follow-up screens. OK\n", path, len(entries), steps)
	return err
}
