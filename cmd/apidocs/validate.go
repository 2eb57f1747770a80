package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and catalog before deployment",
	Long: `Validate the apidocs configuration and the endpoint catalog.

Checks:
  - Config YAML syntax and values are valid
  - The catalog parses and every schema reference resolves
  - The try-it target is reachable (optional)

Examples:
  apidocs validate
  apidocs validate --config /etc/apidocs/config.yaml --check-upstream`,
	RunE: runValidate,
}

var (
	validateCheckUpstream bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckUpstream, "check-upstream", false, "check if the try-it target is reachable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path, err := configPath(cmd)
	if err != nil {
		fmt.Fprintf(out, "  %s Config file exists\n", crossMark)
		return err
	}
	if path == "" {
		fmt.Fprintf(out, "Validating environment configuration...\n\n")
	} else {
		fmt.Fprintf(out, "Validating %s...\n\n", path)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)
	fmt.Fprintf(out, "  %s Try-it target: %s\n", checkMark, cfg.Upstream.BaseURL())

	c, _, err := loadCatalog(cmd)
	if err != nil {
		fmt.Fprintf(out, "  %s Catalog loads\n", crossMark)
		return err
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(out, "  %s Catalog references resolve\n", crossMark)
		return fmt.Errorf("catalog error: %w", err)
	}

	endpoints := 0
	for _, cat := range c.Categories() {
		endpoints += len(cat.Endpoints)
	}
	source := "embedded"
	if cfg.Catalog.Path != "" {
		source = cfg.Catalog.Path
	}
	fmt.Fprintf(out, "  %s Catalog (%s): %d schemas, %d categories, %d endpoints\n",
		checkMark, source, len(c.All()), len(c.Categories()), endpoints)

	if validateCheckUpstream {
		if err := checkUpstreamReachable(cmd.Context(), cfg.Upstream.URL); err != nil {
			fmt.Fprintf(out, "  %s Try-it target reachable\n", crossMark)
			fmt.Fprintf(out, "      Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "  %s Try-it target reachable\n", checkMark)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func checkUpstreamReachable(ctx context.Context, url string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
