package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sycoraxai/voicebroker/pkg/cli"
	"sycoraxai/voicebroker/pkg/config"
	"sycoraxai/voicebroker/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "voicebroker",
	Short: "Credential broker for voice AI providers",
	Long: `voicebroker hands browser clients short-lived connection details for
voice AI providers without exposing the provider API keys.

It serves:
  - POST /connectionDetails for TargetAI, Retell and LiveKit credentials
  - GET /read_config and POST /store_config for the provider configuration
  - POST /run/voice/offer as a pass-through to the TargetAI signaling API

Configuration is read from a YAML file (--config) and VOICEBROKER_*
environment variables, which take precedence.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// loadConfig reads the configuration named by --config and installs it as
// the process-wide configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// newLogger builds the process logger from cfg and makes it the default.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Telemetry.Logging, w)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	slog.SetDefault(logger)
	return logger, nil
}
