package formatter

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML output format"
}

// FormatList formats a list of records as YAML.
func (f *YAMLFormatter) FormatList(w io.Writer, t Table, records []map[string]any, opts FormatOptions) error {
	cols := opts.columns(t)
	data := make([]map[string]any, len(records))
	for i, r := range records {
		data[i] = project(r, cols)
	}

	return f.encode(w, map[string]any{
		"kind":  t.Name,
		"count": len(data),
		"data":  data,
	})
}

// FormatRecord formats a single record as YAML.
func (f *YAMLFormatter) FormatRecord(w io.Writer, t Table, record map[string]any, opts FormatOptions) error {
	var data map[string]any
	if record != nil {
		data = project(record, opts.columns(t))
	}
	return f.encode(w, map[string]any{
		"kind": t.Name,
		"data": data,
	})
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, map[string]any{"error": err.Error()})
}

func (f *YAMLFormatter) encode(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

func init() {
	Register(NewYAMLFormatter())
}
