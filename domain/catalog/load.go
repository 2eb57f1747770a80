package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a catalog.
type Document struct {
	Schemas    []Schema   `yaml:"schemas"`
	Categories []Category `yaml:"categories"`
}

// Decode reads a YAML catalog document and builds a validated Catalog.
// Unknown keys are rejected so typos in descriptor fields fail loudly.
func Decode(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Schemas, doc.Categories)
}

// Parse builds a Catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	return Decode(bytes.NewReader(data))
}

// LoadFile builds a Catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
