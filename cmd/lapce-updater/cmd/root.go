package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HectorLobatoSilva/lapce/internal/config"
	"github.com/HectorLobatoSilva/lapce/internal/logger"
	"github.com/HectorLobatoSilva/lapce/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the level from the configuration file.
	logLevel string
	// currentVersion is the version identifier of the installation being updated.
	currentVersion string

	// rootCmd represents the base command for checking and applying Lapce updates.
	rootCmd = &cobra.Command{
		Use:           "lapce-updater",
		Short:         "Check for and install Lapce releases",
		Long:          "Resolve the release channel of the running Lapce build, download the installer for this platform, install it over the running application and relaunch it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the lapce-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// loadSettings reads the configuration (defaults when the file is missing)
// and applies the log level to the global logger.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("log level %q is not one of debug, info, warn, error", cfg.LogLevel)
	}

	logger.SetLevel(level)

	return cfg, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&currentVersion, "current-version", version.Version, "version identifier of the running build")
}
