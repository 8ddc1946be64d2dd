package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/cmd/kcquery/commands"
	"github.com/systmms/keychainquery/internal/config"
	kqerrors "github.com/systmms/keychainquery/internal/errors"
	"github.com/systmms/keychainquery/internal/logging"
	"github.com/systmms/keychainquery/internal/metrics"
	"github.com/systmms/keychainquery/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	secure.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", kqerrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile  string
		noColor     bool
		debug       bool
		metricsFile string
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "kcquery",
		Short: "Query the OS keychain through typed requests",
		Long: `kcquery builds keychain search and insert requests, runs them against
the OS keychain and reports the classified result.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Explicit = cmd.Flags().Changed("config")
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	commands.AddCommands(rootCmd, cfg)

	err := rootCmd.Execute()
	if metricsFile != "" {
		if werr := metrics.WriteTextfile(metricsFile, nil); werr != nil {
			if err != nil {
				logger := cfg.Logger
				if logger == nil {
					logger = logging.New(debug, noColor)
				}
				logger.Error("failed to write metrics: %v", werr)
			} else {
				err = fmt.Errorf("failed to write metrics: %w", werr)
			}
		}
	}
	return err
}
