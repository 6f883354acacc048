package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// File is the on-disk layout of a catalog table.
type File struct {
	Codes []Entry `yaml:"codes"`
}

// Parse decodes a YAML table and validates it.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Codes, opts...)
}

// Load reads and validates the YAML table at path.
func Load(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in table.
func Default(opts ...Option) (*Catalog, error) {
	return Parse(defaultTable, opts...)
}

// DefaultYAML returns the raw built-in table, e.g. to seed a custom catalog file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}
