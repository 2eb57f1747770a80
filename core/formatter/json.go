package formatter

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON output format"
}

// FormatList formats a list of records as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, t Table, records []map[string]any, opts FormatOptions) error {
	cols := opts.columns(t)
	data := make([]map[string]any, len(records))
	for i, r := range records {
		data[i] = project(r, cols)
	}

	return f.encode(w, map[string]any{
		"kind":  t.Name,
		"count": len(data),
		"data":  data,
	}, opts.Compact)
}

// FormatRecord formats a single record as JSON.
func (f *JSONFormatter) FormatRecord(w io.Writer, t Table, record map[string]any, opts FormatOptions) error {
	var data map[string]any
	if record != nil {
		data = project(record, opts.columns(t))
	}
	return f.encode(w, map[string]any{
		"kind": t.Name,
		"data": data,
	}, opts.Compact)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, map[string]any{"error": err.Error()}, false)
}

func (f *JSONFormatter) encode(w io.Writer, data any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

func init() {
	Register(NewJSONFormatter())
}
