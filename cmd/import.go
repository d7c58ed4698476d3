package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylesense/stylist-cli/internal/ingest"
)

var (
	importTenant string
	importFile   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a catalog file (XLSX or CSV) into the item cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		weights := priorityWeights(cfg.Priority)
		if rec, err := st.GetTenantSettings(ctx, importTenant); err == nil && rec != nil && rec.Weights != nil {
			weights = *rec.Weights
		}

		stats, err := ingest.NewImporter(st, weights, 0).Import(ctx, importTenant, importFile)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d items (%d rows skipped)\n", stats.Imported, stats.Skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importTenant, "tenant", "", "tenant id (required)")
	importCmd.Flags().StringVar(&importFile, "file", "", "path to catalog file (required)")
	_ = importCmd.MarkFlagRequired("tenant")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
