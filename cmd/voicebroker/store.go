package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"sycoraxai/voicebroker/pkg/cli"
	"sycoraxai/voicebroker/pkg/server"
	"sycoraxai/voicebroker/pkg/store"
)

var storeFlags struct {
	format string
	reveal bool
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and manage the provider configuration store",
	Long: `Read or replace the provider configuration document in the backend
selected by the configuration (file, sqlite or memory).`,
}

var storeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored provider configuration",
	Long: `Print the stored provider configuration. Secrets are masked unless
--reveal is given.

Examples:
  voicebroker store show
  voicebroker store show --format json --reveal`,
	Args: cobra.NoArgs,
	RunE: storeShow,
}

var storeImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the stored configuration with a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  storeImport,
}

var storeExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the stored configuration as JSON to FILE or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  storeExport,
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeShowCmd, storeImportCmd, storeExportCmd)

	storeShowCmd.Flags().StringVar(&storeFlags.format, "format", "text", "output format: text, json, csv")
	storeShowCmd.Flags().BoolVar(&storeFlags.reveal, "reveal", false, "print secrets unmasked")
}

// withStore opens the configured backend, runs fn and closes the backend.
func withStore(cmdName string, fn func(ctx context.Context, s *store.ConfigStore) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := server.OpenBackend(cfg.Store)
	if err != nil {
		return cli.NewCommandError(cmdName, err)
	}
	defer backend.Close()

	if err := fn(context.Background(), store.NewConfigStore(backend, nil)); err != nil {
		return cli.NewCommandError(cmdName, err)
	}
	return nil
}

func storeShow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(storeFlags.format)
	if err != nil {
		return err
	}

	return withStore("store show", func(ctx context.Context, s *store.ConfigStore) error {
		doc := s.GetAll(ctx)
		if !storeFlags.reveal {
			doc = store.Redact(doc)
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), documentTable(doc))
	})
}

func storeImport(cmd *cobra.Command, args []string) error {
	doc, err := store.LoadSeedFile(args[0])
	if err == nil {
		doc, err = doc.Normalize()
	}
	if err != nil {
		return cli.NewCommandError("store import", err)
	}

	return withStore("store import", func(ctx context.Context, s *store.ConfigStore) error {
		if err := s.ReplaceAll(ctx, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d provider(s) from %s\n", len(doc), args[0])
		return nil
	})
}

func storeExport(cmd *cobra.Command, args []string) error {
	return withStore("store export", func(ctx context.Context, s *store.ConfigStore) error {
		data, err := json.MarshalIndent(s.GetAll(ctx), "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if len(args) == 0 {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported configuration to %s\n", args[0])
		return nil
	})
}

// documentTable flattens doc into provider/field/value rows in sorted
// order. Nested values are rendered as JSON.
func documentTable(doc store.Document) *cli.Table {
	t := &cli.Table{Headers: []string{"provider", "field", "value"}, Data: doc}

	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		cfg := doc[id]
		fields := make([]string, 0, len(cfg))
		for k := range cfg {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		for _, k := range fields {
			t.Rows = append(t.Rows, []string{id, k, formatValue(cfg[k])})
		}
	}
	return t
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
