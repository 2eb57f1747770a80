package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/monada-ai/apidocs/core/formatter"
	"github.com/monada-ai/apidocs/domain/catalog"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas [name]",
	Short: "List object schemas, or show one",
	Long: `List the object schemas of the catalog, or show the properties of one.

Examples:
  apidocs schemas
  apidocs schemas --search port
  apidocs schemas Account -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchemas,
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List endpoints by category",
	Long: `List the documented endpoints. Search matches path and description.

Examples:
  apidocs endpoints
  apidocs endpoints --search account -o json
  apidocs endpoints --category Suppliers`,
	Args: cobra.NoArgs,
	RunE: runEndpoints,
}

var (
	outputFormat   string
	searchTerm     string
	categoryFilter string
	noHeader       bool
	maxWidth       int
)

var (
	schemasTable   = formatter.Table{Name: "schemas", Columns: []string{"index", "name", "kind", "properties", "description"}}
	schemaTable    = formatter.Table{Name: "schema", Columns: []string{"name", "kind", "description", "properties"}}
	endpointsTable = formatter.Table{Name: "endpoints", Columns: []string{"category", "index", "method", "path", "description"}}
)

func init() {
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(endpointsCmd)

	for _, c := range []*cobra.Command{schemasCmd, endpointsCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: "+strings.Join(formatter.DefaultRegistry.List(), ", "))
		c.Flags().StringVarP(&searchTerm, "search", "s", "", "case-insensitive search term")
		c.Flags().BoolVar(&noHeader, "no-header", false, "omit the table header")
		c.Flags().IntVar(&maxWidth, "max-width", 80, "truncate table cells (0 = no limit)")
	}
	endpointsCmd.Flags().StringVar(&categoryFilter, "category", "", "only list this category")
}

func formatOptions() formatter.FormatOptions {
	return formatter.FormatOptions{NoHeader: noHeader, MaxWidth: maxWidth}
}

func runSchemas(cmd *cobra.Command, args []string) error {
	f, err := formatter.Lookup(outputFormat)
	if err != nil {
		return err
	}
	c, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		s, err := c.Lookup(args[0])
		if err != nil {
			return err
		}
		return f.FormatRecord(out, schemaTable, schemaRecord(s), formatOptions())
	}

	matches := c.FilterSchemas(catalog.Contains(searchTerm))
	records := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		records = append(records, map[string]any{
			"index":       m.Index,
			"name":        m.Item.Name,
			"kind":        string(m.Item.Kind()),
			"properties":  len(m.Item.Properties),
			"description": m.Item.Description,
		})
	}
	return f.FormatList(out, schemasTable, records, formatOptions())
}

func schemaRecord(s catalog.Schema) map[string]any {
	props := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		props = append(props, p.Name+" ("+typeLabel(p.TypeDesc)+")")
	}
	return map[string]any{
		"name":        s.Name,
		"kind":        string(s.Kind()),
		"description": s.Description,
		"properties":  props,
	}
}

// typeLabel is the short type shown next to a property name.
func typeLabel(d catalog.TypeDesc) string {
	switch d.Kind {
	case catalog.KindSchema:
		return d.Schema
	case catalog.KindArray:
		if d.Items != nil {
			return typeLabel(*d.Items) + "[]"
		}
		return "array"
	default:
		return string(d.Kind)
	}
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	f, err := formatter.Lookup(outputFormat)
	if err != nil {
		return err
	}
	c, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	if categoryFilter != "" {
		if _, err := c.Category(categoryFilter); err != nil {
			return fmt.Errorf("unknown category %q (have %s)", categoryFilter, strings.Join(c.CategoryNames(), ", "))
		}
	}

	var records []map[string]any
	for _, cat := range c.FilterCategories(catalog.Contains(searchTerm)) {
		if categoryFilter != "" && cat.Name != categoryFilter {
			continue
		}
		for _, m := range cat.Endpoints {
			records = append(records, map[string]any{
				"category":    cat.Name,
				"index":       m.Index,
				"method":      strings.ToUpper(m.Item.Method),
				"path":        m.Item.Path,
				"description": m.Item.Description,
			})
		}
	}
	return f.FormatList(cmd.OutOrStdout(), endpointsTable, records, formatOptions())
}
