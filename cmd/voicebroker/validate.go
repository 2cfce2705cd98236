package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"sycoraxai/voicebroker/pkg/cli"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file and environment overrides and report the
effective settings. Exits with status 2 when the configuration is invalid.

Examples:
  voicebroker validate --config config.yaml
  voicebroker validate --format json`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, csv")
}

type configSummary struct {
	ListenAddress   string `json:"listen_address"`
	StoreBackend    string `json:"store_backend"`
	StoreLocation   string `json:"store_location"`
	DefaultProvider string `json:"default_provider"`
	SignalingURL    string `json:"signaling_url"`
	Metrics         bool   `json:"metrics_enabled"`
	Tracing         bool   `json:"tracing_enabled"`
	BackupSchedule  string `json:"backup_schedule,omitempty"`
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	location := cfg.Store.Path
	switch cfg.Store.Backend {
	case "sqlite":
		location = cfg.Store.SQLite.Path
	case "memory":
		location = "-"
	}

	summary := configSummary{
		ListenAddress:   cfg.Server.ListenAddress,
		StoreBackend:    cfg.Store.Backend,
		StoreLocation:   location,
		DefaultProvider: cfg.Broker.DefaultProvider,
		SignalingURL:    cfg.Upstream.Signaling.URL,
		Metrics:         cfg.Telemetry.Metrics.Enabled,
		Tracing:         cfg.Telemetry.Tracing.Enabled,
		BackupSchedule:  cfg.Store.Backup.Schedule,
	}

	table := &cli.Table{
		Headers: []string{"setting", "value"},
		Rows: [][]string{
			{"listen_address", summary.ListenAddress},
			{"store_backend", summary.StoreBackend},
			{"store_location", summary.StoreLocation},
			{"default_provider", summary.DefaultProvider},
			{"signaling_url", summary.SignalingURL},
			{"metrics_enabled", strconv.FormatBool(summary.Metrics)},
			{"tracing_enabled", strconv.FormatBool(summary.Tracing)},
		},
		Data: summary,
	}
	if summary.BackupSchedule != "" {
		table.Rows = append(table.Rows, []string{"backup_schedule", summary.BackupSchedule})
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}
