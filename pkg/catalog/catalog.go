package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// ErrInvalidCatalog is returned when a table fails structural validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Entry is a known dial code with its root screen and nested selections.
type Entry struct {
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`

	Template `yaml:",inline"`

	Next []Step `yaml:"next,omitempty" json:"next,omitempty"`
}

// Step is the screen reached by selecting Key while the history has Depth screens.
type Step struct {
	Depth int    `yaml:"depth" json:"depth"`
	Key   string `yaml:"key" json:"key"`

	Template `yaml:",inline"`
}

type stepKey struct {
	code  domain.DialCode
	depth int
	key   string
}

// Catalog is an immutable, validated response table.
// It implements ports.Catalog and is safe for concurrent use.
type Catalog struct {
	entries []Entry
	roots   map[domain.DialCode]Template
	steps   map[stepKey]Template
	ids     ports.IDGenerator
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithIDGenerator replaces the default UUID session ID generator.
func WithIDGenerator(gen ports.IDGenerator) Option {
	return func(c *Catalog) {
		c.ids = gen
	}
}

// New validates the entries and builds the lookup tables.
func New(entries []Entry, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		roots: make(map[domain.DialCode]Template, len(entries)),
		steps: make(map[stepKey]Template),
		ids:   UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, e := range entries {
		code, err := domain.ParseDialCode(e.Code)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidCatalog, i, err)
		}
		if _, dup := c.roots[code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidCatalog, code)
		}
		if err := validateOptions(e.Options); err != nil {
			return nil, fmt.Errorf("%w: %s root: %w", ErrInvalidCatalog, code, err)
		}
		for _, o := range e.Options {
			if o.Key == domain.KeyBack {
				return nil, fmt.Errorf("%w: %s root offers back option %q", ErrInvalidCatalog, code, domain.KeyBack)
			}
		}
		c.roots[code] = e.Template

		for _, s := range e.Next {
			if s.Depth < 1 {
				return nil, fmt.Errorf("%w: %s step %q: depth must be >= 1, got %d", ErrInvalidCatalog, code, s.Key, s.Depth)
			}
			if strings.TrimSpace(s.Key) == "" {
				return nil, fmt.Errorf("%w: %s step at depth %d has an empty key", ErrInvalidCatalog, code, s.Depth)
			}
			if s.Key == domain.KeyExit {
				return nil, fmt.Errorf("%w: %s step at depth %d uses the exit key %q", ErrInvalidCatalog, code, s.Depth, domain.KeyExit)
			}
			if s.Depth == 1 && !rootOffers(e.Options, s.Key) {
				return nil, fmt.Errorf("%w: %s step %q is not offered by the root menu", ErrInvalidCatalog, code, s.Key)
			}
			if err := validateOptions(s.Options); err != nil {
				return nil, fmt.Errorf("%w: %s step %d/%s: %w", ErrInvalidCatalog, code, s.Depth, s.Key, err)
			}
			k := stepKey{code: code, depth: s.Depth, key: s.Key}
			if _, dup := c.steps[k]; dup {
				return nil, fmt.Errorf("%w: %s has two steps for depth %d key %q", ErrInvalidCatalog, code, s.Depth, s.Key)
			}
			c.steps[k] = s.Template
		}

		e.Code = string(code)
		c.entries = append(c.entries, e)
	}

	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Code < c.entries[j].Code })
	return c, nil
}

func rootOffers(opts []domain.Option, key string) bool {
	for _, o := range opts {
		if o.Key == key {
			return true
		}
	}
	return false
}

func validateOptions(opts []domain.Option) error {
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if strings.TrimSpace(o.Key) == "" {
			return fmt.Errorf("option %q has an empty key", o.Text)
		}
		if seen[o.Key] {
			return fmt.Errorf("duplicate option key %q", o.Key)
		}
		seen[o.Key] = true
	}
	return nil
}

// ResolveRoot returns the root screen for code, or the unavailable-service fallback.
func (c *Catalog) ResolveRoot(code domain.DialCode, operator string) domain.Response {
	v := vars{operator: operator, code: code}
	tmpl, ok := c.roots[code]
	if !ok {
		tmpl = fallbackRoot
	}
	return tmpl.render(c.ids.NewID(), v)
}

// ResolveNext returns the screen for (code, depth, key), or the depth-dependent fallback.
func (c *Catalog) ResolveNext(code domain.DialCode, depth int, key, operator string) domain.Response {
	v := vars{operator: operator, code: code, key: key}
	tmpl, ok := c.steps[stepKey{code: code, depth: depth, key: key}]
	if !ok {
		if depth <= 1 {
			tmpl = fallbackShallow
		} else {
			tmpl = fallbackDeep
		}
	}
	return tmpl.render("", v)
}

// Knows reports whether code has a hand-authored root screen.
func (c *Catalog) Knows(code domain.DialCode) bool {
	_, ok := c.roots[code]
	return ok
}

// Entries returns the known codes, sorted by code.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry returns the entry for code.
func (c *Catalog) Entry(code domain.DialCode) (Entry, bool) {
	for _, e := range c.entries {
		if e.Code == string(code) {
			return e, true
		}
	}
	return Entry{}, false
}

// Search returns the entries whose code, description or category contain term.
// Text fields match case-insensitively; an empty term returns everything.
func (c *Catalog) Search(term string) []Entry {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.Entries()
	}
	lower := strings.ToLower(term)
	var out []Entry
	for _, e := range c.entries {
		if strings.Contains(e.Code, term) ||
			strings.Contains(strings.ToLower(e.Description), lower) ||
			strings.Contains(strings.ToLower(e.Category), lower) {
			out = append(out, e)
		}
	}
	return out
}
