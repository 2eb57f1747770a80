package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats output as aligned text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text table output"
}

// FormatList formats a list of records as a table.
func (f *TableFormatter) FormatList(w io.Writer, t Table, records []map[string]any, opts FormatOptions) error {
	if len(records) == 0 {
		fmt.Fprintf(w, "No %s found.\n", t.Name)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	columns := opts.columns(t)

	if !opts.NoHeader {
		headers := make([]string, len(columns))
		for i, col := range columns {
			headers[i] = strings.ToUpper(col)
		}
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}

	for _, record := range records {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = f.formatValue(record[col], opts.MaxWidth)
		}
		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}

	return tw.Flush()
}

// FormatRecord formats a single record as key-value pairs.
func (f *TableFormatter) FormatRecord(w io.Writer, t Table, record map[string]any, opts FormatOptions) error {
	if record == nil {
		fmt.Fprintln(w, "Record not found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, col := range opts.columns(t) {
		fmt.Fprintf(tw, "%s:\t%s\n", f.formatLabel(col), f.formatValue(record[col], 0))
	}
	return tw.Flush()
}

// FormatError formats an error message.
func (f *TableFormatter) FormatError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Error: %s\n", err.Error())
	return werr
}

// formatLabel turns a snake_case column into a Title Case label.
func (f *TableFormatter) formatLabel(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatValue formats a value for display.
func (f *TableFormatter) formatValue(val any, maxWidth int) string {
	if val == nil {
		return "-"
	}

	var str string
	switch v := val.(type) {
	case string:
		str = v
	case bool:
		if v {
			str = "yes"
		} else {
			str = "no"
		}
	case int:
		str = fmt.Sprintf("%d", v)
	case []string:
		str = strings.Join(v, ", ")
	default:
		b, _ := json.Marshal(v)
		str = string(b)
	}

	if maxWidth > 3 && len(str) > maxWidth {
		str = str[:maxWidth-3] + "..."
	}
	return str
}

func init() {
	Register(NewTableFormatter())
}
