package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixora-ai/fixora/internal/config"
)

const app = "fixoractl"

// Actual version can be specified in build command.
var version = "unknown"

var (
	debug bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "fixoractl manages the Fixora usage store",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version: %s\n", app, version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the same environment as the API server.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
