package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylesense/stylist-cli/internal/engine"
	"github.com/stylesense/stylist-cli/internal/model"
	"github.com/stylesense/stylist-cli/internal/settings"
)

var (
	recommendTenant      string
	recommendBodyShape   string
	recommendSeason      string
	recommendAudience    string
	recommendColorSeason string
	recommendBudgetTier  string
	recommendStyleTags   []string
	recommendCount       int
	recommendMinScore    float64
	recommendInStockOnly bool
	recommendJSON        bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate recommendations for a shopper profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profile := model.ShopperProfile{
			BodyShape:   recommendBodyShape,
			ColorSeason: recommendColorSeason,
		}
		if recommendBudgetTier != "" || len(recommendStyleTags) > 0 {
			profile.Values = &model.ShopperValues{
				BudgetTier: recommendBudgetTier,
				StyleTags:  recommendStyleTags,
			}
		}

		eng := engine.New(st, settings.NewResolver(st, cfg))
		res, err := eng.Recommend(ctx, engine.Request{
			TenantID:    recommendTenant,
			Profile:     profile,
			Season:      recommendSeason,
			Audience:    recommendAudience,
			Count:       recommendCount,
			MinScore:    recommendMinScore,
			InStockOnly: recommendInStockOnly,
		})
		if err != nil {
			return err
		}

		if recommendJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		fmt.Printf("Source: %s\n", res.Source)
		if res.Dropped > 0 {
			fmt.Printf("Dropped entries: %d\n", res.Dropped)
		}
		for i, rec := range res.Recommendations {
			fmt.Printf("\n%d. %s (%s, $%.2f, score %.2f)\n",
				i+1, rec.Item.Title, rec.Category, rec.Item.Price, rec.Score)
			if rec.Rationale != "" {
				fmt.Printf("   %s\n", rec.Rationale)
			}
			if rec.SizeNote != "" {
				fmt.Printf("   Size: %s\n", rec.SizeNote)
			}
			if rec.StylingTip != "" {
				fmt.Printf("   Tip: %s\n", rec.StylingTip)
			}
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendTenant, "tenant", "", "tenant id (required)")
	recommendCmd.Flags().StringVar(&recommendBodyShape, "body-shape", "", "shopper body shape (required)")
	recommendCmd.Flags().StringVar(&recommendSeason, "season", "", "season filter")
	recommendCmd.Flags().StringVar(&recommendAudience, "audience", "", "audience filter (men's or women's)")
	recommendCmd.Flags().StringVar(&recommendColorSeason, "color-season", "", "shopper color season")
	recommendCmd.Flags().StringVar(&recommendBudgetTier, "budget", "", "budget tier (low, medium, high, luxury)")
	recommendCmd.Flags().StringSliceVar(&recommendStyleTags, "style", nil, "preferred style tags")
	recommendCmd.Flags().IntVar(&recommendCount, "count", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().Float64Var(&recommendMinScore, "min-score", 0, "minimum score threshold (default from config)")
	recommendCmd.Flags().BoolVar(&recommendInStockOnly, "in-stock", false, "only consider in-stock items")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output JSON")
	_ = recommendCmd.MarkFlagRequired("tenant")
	_ = recommendCmd.MarkFlagRequired("body-shape")
	rootCmd.AddCommand(recommendCmd)
}
