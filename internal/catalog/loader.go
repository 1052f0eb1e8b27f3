package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads a catalog from a reader. Sections missing from the
// document fall back to the built-in defaults.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	c.fillDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// LoadBytes loads a catalog from YAML bytes.
func LoadBytes(data []byte) (*Catalog, error) {
	return Load(bytes.NewReader(data))
}
