package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sycoraxai/voicebroker/pkg/cli"
	"sycoraxai/voicebroker/pkg/config"
	"sycoraxai/voicebroker/pkg/server"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	staticDir     string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the voice broker",
	Long: `Start the voice broker HTTP server.

Examples:
  # Start with defaults (file store at data/providers.json, port 8001)
  voicebroker run

  # Start with a config file and serve a web client
  voicebroker run --config config.yaml --static-dir ./web

  # Validate config without starting the server
  voicebroker run --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.staticDir, "static-dir", "", "serve this directory at /")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.staticDir != "" {
		cfg.Server.StaticDir = runFlags.staticDir
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	logger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, server.Options{
		Logger: logger,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}
