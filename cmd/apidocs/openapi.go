package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monada-ai/apidocs/core/openapi"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the catalog as an OpenAPI 3.0 document",
	Long: `Print the catalog as an OpenAPI 3.0 document.

The server entry defaults to the configured try-it target.

Examples:
  apidocs openapi > openapi.json
  apidocs openapi --server http://localhost:3000/api --compact`,
	Args: cobra.NoArgs,
	RunE: runOpenAPI,
}

var (
	openapiServer  string
	openapiCompact bool
)

func init() {
	rootCmd.AddCommand(openapiCmd)

	openapiCmd.Flags().StringVar(&openapiServer, "server", "", "server URL (default: upstream url + api prefix)")
	openapiCmd.Flags().BoolVar(&openapiCompact, "compact", false, "print compact JSON")
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	c, cfg, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	server := openapiServer
	if server == "" {
		server = cfg.Upstream.BaseURL()
	}

	gen := openapi.NewGenerator(c)
	gen.SetInfo(openapi.Info{Title: cfg.Docs.Title, Version: version})
	gen.AddServer(server, "Try-it target")
	spec := gen.Generate()

	var data []byte
	if openapiCompact {
		data, err = spec.ToJSONCompact()
	} else {
		data, err = spec.ToJSON()
	}
	if err != nil {
		return fmt.Errorf("encode openapi: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
