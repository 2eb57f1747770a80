// Package formatter provides a pluggable output formatting system for the CLI.
// Formatters convert catalog listings to table, json or yaml output.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Table describes a listing: its name and the default column order.
type Table struct {
	Name    string   // e.g. "schemas", "endpoints"
	Columns []string // display order; records may carry more keys
}

// Formatter converts structured data to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "table", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// FormatList formats a list of records.
	FormatList(w io.Writer, t Table, records []map[string]any, opts FormatOptions) error

	// FormatRecord formats a single record.
	FormatRecord(w io.Writer, t Table, record map[string]any, opts FormatOptions) error

	// FormatError formats an error.
	FormatError(w io.Writer, err error) error
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// Columns specifies which fields to include (nil = the table's columns).
	Columns []string

	// NoHeader disables header row for tabular formats.
	NoHeader bool

	// Compact minimizes whitespace (for json).
	Compact bool

	// MaxWidth truncates long values (0 = no limit).
	MaxWidth int
}

// columns returns the requested columns or the table defaults.
func (o FormatOptions) columns(t Table) []string {
	if len(o.Columns) > 0 {
		return o.Columns
	}
	return t.Columns
}

// project keeps only cols of record.
func project(record map[string]any, cols []string) map[string]any {
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		if v, ok := record[c]; ok {
			out[c] = v
		}
	}
	return out
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "table",
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Default returns the default formatter.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatters[r.defaultFmt]
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) error {
	return DefaultRegistry.Register(f)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// Lookup returns the named formatter or an error listing the known ones.
func Lookup(name string) (Formatter, error) {
	if name == "" {
		return DefaultRegistry.Default(), nil
	}
	f, ok := DefaultRegistry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, DefaultRegistry.List())
	}
	return f, nil
}
