package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func testTable() Table {
	return Table{Name: "schemas", Columns: []string{"index", "name", "properties"}}
}

func testRecords() []map[string]any {
	return []map[string]any{
		{"index": 0, "name": "Account", "properties": 12, "description": "A customer."},
		{"index": 5, "name": "Port", "properties": 7},
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(NewTableFormatter()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := r.Register(NewTableFormatter())
	if err == nil {
		t.Fatal("expected error when registering duplicate formatter")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("error should mention 'already registered', got: %v", err)
	}
}

func TestRegistry_DefaultAndList(t *testing.T) {
	r := NewRegistry()
	if r.Default() != nil {
		t.Error("empty registry should have no default")
	}
	r.Register(NewYAMLFormatter())
	r.Register(NewTableFormatter())
	r.Register(NewJSONFormatter())

	if got := r.Default().Name(); got != "table" {
		t.Errorf("Default() = %s, want table", got)
	}
	if got := strings.Join(r.List(), ","); got != "json,table,yaml" {
		t.Errorf("List() = %s", got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "table", false},
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Lookup(tt.name)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "available") {
					t.Fatalf("Lookup(%q) error = %v, want unknown format", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.name, err)
			}
			if f.Name() != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.name, f.Name(), tt.want)
			}
		})
	}
}

func TestTableFormatter_FormatList(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter()

	if err := f.FormatList(&buf, testTable(), testRecords(), FormatOptions{}); err != nil {
		t.Fatalf("FormatList: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "INDEX NAME PROPERTIES" {
		t.Errorf("header = %q", lines[0])
	}
	if fields := strings.Fields(lines[2]); strings.Join(fields, " ") != "5 Port 7" {
		t.Errorf("row = %q", lines[2])
	}
	if strings.Contains(buf.String(), "A customer.") {
		t.Error("columns outside the table should not be printed")
	}
}

func TestTableFormatter_Options(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter()

	opts := FormatOptions{Columns: []string{"name", "description"}, NoHeader: true, MaxWidth: 8}
	if err := f.FormatList(&buf, testTable(), testRecords(), opts); err != nil {
		t.Fatalf("FormatList: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "NAME") {
		t.Error("header printed with NoHeader")
	}
	if !strings.Contains(out, "A cus...") {
		t.Errorf("expected truncated description, got:\n%s", out)
	}
	if !strings.Contains(out, "Port") || !strings.Contains(out, "-") {
		t.Errorf("missing value should render as '-', got:\n%s", out)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewTableFormatter().FormatList(&buf, Table{Name: "endpoints"}, nil, FormatOptions{})
	if got := buf.String(); got != "No endpoints found.\n" {
		t.Errorf("got %q", got)
	}
}

func TestTableFormatter_FormatValue(t *testing.T) {
	f := NewTableFormatter()
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{true, "yes"},
		{false, "no"},
		{42, "42"},
		{[]string{"port", "city"}, "port, city"},
		{map[string]int{"a": 1}, `{"a":1}`},
	}
	for _, tt := range tests {
		if got := f.formatValue(tt.in, 0); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFormatter_FormatRecord(t *testing.T) {
	var buf bytes.Buffer
	tbl := Table{Name: "endpoints", Columns: []string{"method", "url_params"}}
	NewTableFormatter().FormatRecord(&buf, tbl, map[string]any{"method": "GET", "url_params": []string{"accountId"}}, FormatOptions{})

	out := buf.String()
	if !strings.Contains(out, "Url Params:") || !strings.Contains(out, "accountId") {
		t.Errorf("got:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	if err := f.FormatList(&buf, testTable(), testRecords(), FormatOptions{}); err != nil {
		t.Fatalf("FormatList: %v", err)
	}

	var out struct {
		Kind  string           `json:"kind"`
		Count int              `json:"count"`
		Data  []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Kind != "schemas" || out.Count != 2 {
		t.Errorf("envelope = %+v", out)
	}
	if _, ok := out.Data[0]["description"]; ok {
		t.Error("description should be projected away")
	}
	if out.Data[1]["name"] != "Port" {
		t.Errorf("data[1] = %v", out.Data[1])
	}

	buf.Reset()
	f.FormatList(&buf, testTable(), testRecords(), FormatOptions{Compact: true})
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact output should be one line, got:\n%s", buf.String())
	}

	buf.Reset()
	f.FormatError(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), `"error": "boom"`) {
		t.Errorf("FormatError = %s", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewYAMLFormatter()

	if err := f.FormatRecord(&buf, testTable(), testRecords()[0], FormatOptions{}); err != nil {
		t.Fatalf("FormatRecord: %v", err)
	}

	var out struct {
		Kind string         `yaml:"kind"`
		Data map[string]any `yaml:"data"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if out.Kind != "schemas" || out.Data["name"] != "Account" {
		t.Errorf("got %+v", out)
	}

	buf.Reset()
	f.FormatList(&buf, testTable(), nil, FormatOptions{})
	if !strings.Contains(buf.String(), "count: 0") {
		t.Errorf("empty list = %s", buf.String())
	}
}
