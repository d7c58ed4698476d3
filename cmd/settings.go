package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylesense/stylist-cli/internal/model"
)

var (
	settingsTenant  string
	settingsEnable  bool
	settingsDisable bool
	settingsModel   string
	settingsRPM     int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage per-tenant settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show saved settings for a tenant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.GetTenantSettings(ctx, settingsTenant)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Printf("No settings saved for tenant %s; config defaults apply\n", settingsTenant)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings for a tenant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rec := &model.TenantSettingsRecord{TenantID: settingsTenant}
		if existing, err := st.GetTenantSettings(ctx, settingsTenant); err == nil && existing != nil {
			rec = existing
		}

		if cmd.Flags().Changed("enable") || cmd.Flags().Changed("disable") {
			enabled := settingsEnable && !settingsDisable
			rec.Enabled = &enabled
		}
		if settingsModel != "" {
			rec.Model = settingsModel
		}
		if settingsRPM > 0 {
			rec.RequestsPerMinute = settingsRPM
		}

		if err := st.SaveTenantSettings(ctx, *rec); err != nil {
			return err
		}
		fmt.Printf("Saved settings for tenant %s\n", settingsTenant)
		return nil
	},
}

func init() {
	settingsCmd.PersistentFlags().StringVar(&settingsTenant, "tenant", "", "tenant id (required)")
	_ = settingsCmd.MarkPersistentFlagRequired("tenant")

	settingsSetCmd.Flags().BoolVar(&settingsEnable, "enable", false, "enable generative ranking")
	settingsSetCmd.Flags().BoolVar(&settingsDisable, "disable", false, "disable generative ranking")
	settingsSetCmd.Flags().StringVar(&settingsModel, "model", "", "ranking model override")
	settingsSetCmd.Flags().IntVar(&settingsRPM, "rpm", 0, "requests-per-minute override")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
