package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monada-ai/apidocs/bootstrap"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API reference server",
	Long: `Start the apidocs reference server.

The server will:
  - Load configuration from apidocs.yaml (or --config)
  - Or load configuration from APIDOCS_* environment variables
  - Load the embedded catalog (or catalog.path)
  - Serve the reference under /docs, health under /health
  - Send try-it requests to upstream.url + upstream.api_prefix

Environment variables (for Docker deployments):
  APIDOCS_SERVER_PORT       - Server port (default: 8080)
  APIDOCS_UPSTREAM_URL      - Try-it target (default: https://app.monada.ai)
  APIDOCS_UPSTREAM_PREFIX   - API path prefix (default: /api)
  APIDOCS_DOCS_THEME        - Default theme: dark or light
  APIDOCS_LOG_LEVEL         - Log level: debug, info, warn, error

Examples:
  apidocs serve
  apidocs serve --config /etc/apidocs/config.yaml
  apidocs serve --hot-reload=false

  # Docker (env vars only):
  APIDOCS_UPSTREAM_URL=http://localhost:3000 apidocs serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "reload configuration on file change and SIGHUP")
}

func runServe(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: path,
		Version:    version,
		Watch:      hotReload,
	})
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}

	return app.Run(cmd.Context())
}
