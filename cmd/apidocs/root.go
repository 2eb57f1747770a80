package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monada-ai/apidocs/catalogdata"
	"github.com/monada-ai/apidocs/config"
	"github.com/monada-ai/apidocs/domain/catalog"
)

const defaultConfigFile = "apidocs.yaml"

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apidocs",
	Short: "Interactive reference for the Monada API",
	Long: `apidocs serves a browsable reference of the Monada API endpoints and
object schemas, with search, schema navigation and a try-it panel that
sends requests to a configurable API host.

Quick start:
  apidocs serve              # Start the reference server on :8080
  apidocs validate           # Check config and catalog

Catalog:
  apidocs schemas            # List object schemas
  apidocs endpoints          # List endpoints by category
  apidocs openapi            # Print the OpenAPI document`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
}

// configPath returns the config file to load, or "" to use the environment
// only. A missing default file is not an error; a missing explicit one is.
func configPath(cmd *cobra.Command) (string, error) {
	if _, err := os.Stat(cfgFile); err == nil {
		return cfgFile, nil
	}
	if cmd.Flags().Changed("config") {
		return "", fmt.Errorf("config file not found: %s", cfgFile)
	}
	return "", nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	return config.LoadWithFallback(path)
}

func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	c, err := catalogdata.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog error: %w", err)
	}
	return c, cfg, nil
}
