package cmd

import (
	"fmt"
	"log/slog"

	"github.com/modeldocs/portal/internal/catalog"
	"github.com/modeldocs/portal/internal/config"
	"github.com/modeldocs/portal/internal/dataset"
	"github.com/modeldocs/portal/internal/identity"
	"github.com/modeldocs/portal/internal/uploader"
	"github.com/spf13/cobra"
)

func newImportCmd(configPath *string) *cobra.Command {
	var limit int
	var employeeID string

	cmd := &cobra.Command{
		Use:   "import DATASET",
		Short: "Bulk-import catalog items from a Parquet or JSONL dataset",
		Long: `Loads catalog items from a seed dataset and creates them through the
catalog API, running each row through the same validation and duplicate
pre-check as an interactive upload. Rows that fail validation or collide
with an existing title are skipped and logged.`,
		Example: `  portal import seed.parquet
  portal import --limit 50 items.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			var ident identity.Provider
			if employeeID != "" {
				ident = identity.Static{ID: employeeID}
			} else {
				store, err := identity.Open(cfg.IdentityDBPath)
				if err != nil {
					return err
				}
				defer store.Close()
				ident = store
			}

			loader := dataset.NewLoader(args[0])
			var records []dataset.Record
			if limit > 0 {
				records, err = loader.LoadSample(limit)
			} else {
				records, err = loader.Load()
			}
			if err != nil {
				return err
			}

			client := catalog.NewClient(cfg.CatalogURL)
			workflow := uploader.New(client, ident, nil)

			imported, skipped := 0, 0
			for i := range records {
				draft := records[i].Draft()
				title := draft.Title
				if _, err := workflow.Submit(cmd.Context(), &draft); err != nil {
					skipped++
					slog.Warn("Skipping record", "title", title, "error", err)
					continue
				}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items, skipped %d\n", imported, skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Import at most this many records (0 = all)")
	cmd.Flags().StringVar(&employeeID, "employee-id", "", "Employee identifier to authorize the import (overrides the identity store)")

	return cmd
}
