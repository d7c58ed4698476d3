package ranker

import "github.com/stylesense/stylist-cli/internal/model"

// maxDescriptionLen bounds the description sent per candidate so a large
// catalog page stays inside the prompt budget.
const maxDescriptionLen = 200

// BuildCandidates projects catalog items into the ranking view, capping the
// list at maxScan. Index is the position in the returned slice and is the
// only identity the ranking service sees.
func BuildCandidates(items []model.CatalogItem, maxScan int) []model.RankingCandidate {
	if maxScan > 0 && len(items) > maxScan {
		items = items[:maxScan]
	}

	out := make([]model.RankingCandidate, len(items))
	for i, it := range items {
		c := model.RankingCandidate{
			Index:       i,
			Title:       it.Title,
			Description: truncate(it.Description, maxDescriptionLen),
			Category:    it.Category,
			Tags:        it.Tags,
			Price:       it.Price,
			InStock:     it.InStock,
			Sizes:       it.Sizes,
		}
		if it.Visual != nil {
			c.Colors = it.Visual.Colors
			c.Seasons = it.Visual.Seasons
			c.Silhouette = it.Visual.Silhouette
			c.Pattern = it.Visual.Pattern
		}
		out[i] = c
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
