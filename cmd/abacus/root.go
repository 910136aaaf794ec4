package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/abacus/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "abacus.yaml"

var rootCmd = &cobra.Command{
	Use:          "abacus",
	Short:        "Abacus is a four-function calculator engine",
	Long:         `Abacus runs a pocket-calculator state machine as a REPL, an HTTP API or an MCP server.`,
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
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: abacus.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("dir", "", "Override the session directory of the file store")
}

// loadConfig resolves the config file, env vars and persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Store.Dir = dir
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger from the config. Logs go to stderr.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := cfg.Log.Logger(os.Stderr)
	slog.SetDefault(logger)
	return logger
}
