package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"sevenguis/internal/config"
	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

// Version is the application version reported by logs and `sevenguis version`
const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "sevenguis",
	Short: "Counter and temperature converter widgets",
	Long: `sevenguis serves a click counter and a Celsius/Fahrenheit converter to the
browser, and can replay edit scripts against the converter from the terminal.`,
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
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or TOML config file (overrides "+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig resolves configuration from file, environment and flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv(config.EnvConfigFile, path); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newLogger(service string, cfg *config.Config) *logging.StructuredLogger {
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	return logging.NewStructuredLogger(service, Version, level)
}

func newMetrics() *metrics.Collector {
	return metrics.NewCollector("sevenguis", prometheus.DefaultRegisterer)
}
