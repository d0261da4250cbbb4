package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pipedock/oauthbridge/internal/config"
	"github.com/pipedock/oauthbridge/internal/logs"
)

var (
	configFile string
	logLevel   string
	logToFile  bool
	logDir     string

	version = "v0.1.0" // injected by -ldflags during build
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "oauthbridge",
		Short:   "Inspect and debug connector OAuth configuration reconciliation",
		Long:    "oauthbridge is a developer utility for the platform's OAuth orchestration:\nit extracts declared OAuth input paths from connector specs, reconciles masked\nconfigurations against stored ones, and normalizes raw provider results.",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-to-file", false, "Enable logging to file")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Custom log directory path")

	rootCmd.AddCommand(newPathsCmd())
	rootCmd.AddCommand(newReconcileCmd())
	rootCmd.AddCommand(newNormalizeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger builds the command logger from config file, environment, and
// command-line overrides.
func setupLogger() (*zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logToFile {
		cfg.Logging.EnableFile = true
	}
	if logDir != "" {
		cfg.Logging.LogDir = logDir
	}
	return logs.Setup(cfg.Logging)
}
