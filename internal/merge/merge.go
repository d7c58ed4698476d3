// Package merge turns validated ranking entries back into catalog-backed
// recommendations: threshold, resolve, dedupe, sort, truncate.
package merge

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stylesense/stylist-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// Merge resolves ranked entries against the candidate items and produces the
// final recommendation list. Entries below minScore (0-100) are dropped,
// duplicates resolving to the same item keep the highest-scoring occurrence,
// output is sorted by score descending and truncated to limit. Scores are
// normalized from the 0-100 source scale to [0,1].
func Merge(entries []model.RankedEntry, items []model.CatalogItem, minScore float64, limit int) []model.Recommendation {
	// Dedupe by item identity, not by index: two indices can resolve to the
	// same record when the upstream list contains duplicates.
	best := make(map[string]model.Recommendation)
	order := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.Score < minScore {
			continue
		}
		if e.Index < 0 || e.Index >= len(items) {
			continue
		}
		item := items[e.Index]

		key := item.TenantID + "/" + item.ItemID
		rec := model.Recommendation{
			Item:       item,
			Score:      clamp01(e.Score / 100),
			SizeNote:   e.SizeAdvice,
			Rationale:  e.Rationale,
			StylingTip: e.StylingTip,
			Category:   deriveCategory(&item),
		}

		if prev, ok := best[key]; ok {
			if rec.Score > prev.Score {
				best[key] = rec
			}
			continue
		}
		best[key] = rec
		order = append(order, key)
	}

	out := make([]model.Recommendation, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}

	// Stable so equal scores keep their upstream order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// deriveCategory prefers the item's own category tag, then falls back to the
// first keyword tag, title-cased for display.
func deriveCategory(it *model.CatalogItem) string {
	if it.Category != "" {
		return titleCaser.String(strings.ToLower(it.Category))
	}
	if len(it.Tags) > 0 {
		return titleCaser.String(strings.ToLower(it.Tags[0]))
	}
	return "Other"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
