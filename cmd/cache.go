package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/priority"
)

var cacheTenant string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the item cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show item cache statistics for a tenant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		cs, err := st.CacheStatus(ctx, cacheTenant)
		if err != nil {
			return err
		}

		fmt.Printf("Tenant:   %s\n", cacheTenant)
		fmt.Printf("Items:    %d\n", cs.Items)
		fmt.Printf("In stock: %d\n", cs.InStock)
		if !cs.OldestPriorityAt.IsZero() {
			fmt.Printf("Priority scores calculated between %s and %s\n",
				cs.OldestPriorityAt.Format("2006-01-02 15:04"),
				cs.NewestPriorityAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var cacheRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute priority scores for a tenant's cached items",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		weights := priorityWeights(cfg.Priority)
		if rec, err := st.GetTenantSettings(ctx, cacheTenant); err == nil && rec != nil && rec.Weights != nil {
			weights = *rec.Weights
		}

		n, err := priority.NewRefresher(st, 0).Refresh(ctx, cacheTenant, weights)
		if err != nil {
			return err
		}

		zap.L().Info("cache refresh complete",
			zap.String("tenant", cacheTenant),
			zap.Int("items", n),
		)
		fmt.Printf("Refreshed %d items\n", n)
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheTenant, "tenant", "", "tenant id (required)")
	_ = cacheCmd.MarkPersistentFlagRequired("tenant")
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheRefreshCmd)
	rootCmd.AddCommand(cacheCmd)
}
