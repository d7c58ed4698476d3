// Package filter narrows the cached candidate set by hard constraints before
// ranking. Stages run in a fixed order and only ever drop items; the input
// ordering (priority score descending, from the cache layer) is preserved.
package filter

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/model"
)

// Constraints holds the per-request filter parameters. Zero values disable
// the corresponding stage.
type Constraints struct {
	Season      string
	BudgetTier  string
	Bands       model.BudgetBands
	Audience    string
	InStockOnly bool
}

var knownTiers = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"luxury": true,
}

// Apply runs the filter stages: price sanity, stock, season, budget tier,
// audience. An empty result is a legitimate outcome; the caller decides how
// to report it.
func Apply(items []model.CatalogItem, c Constraints) []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(items))
	for _, it := range items {
		if it.Price <= 0 {
			continue
		}
		out = append(out, it)
	}

	if c.InStockOnly {
		out = keep(out, func(it *model.CatalogItem) bool { return it.InStock })
	}

	if c.Season != "" {
		season := strings.ToLower(c.Season)
		out = keep(out, func(it *model.CatalogItem) bool {
			for _, tag := range it.SeasonTags() {
				if strings.ToLower(tag) == season {
					return true
				}
			}
			return false
		})
	}

	if c.BudgetTier != "" {
		tier := strings.ToLower(c.BudgetTier)
		if !knownTiers[tier] {
			zap.L().Warn("filter: unknown budget tier, skipping stage",
				zap.String("tier", c.BudgetTier))
		} else {
			out = keep(out, func(it *model.CatalogItem) bool {
				return inBand(it.Price, tier, c.Bands)
			})
		}
	}

	if c.Audience != "" {
		out = keep(out, func(it *model.CatalogItem) bool {
			return audienceCompatible(it, c.Audience)
		})
	}

	return out
}

func keep(items []model.CatalogItem, pred func(*model.CatalogItem) bool) []model.CatalogItem {
	out := items[:0]
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// inBand checks half-open band membership: low = [0, lowMax), medium =
// [lowMax, mediumMax), high = [mediumMax, highMax), luxury = [highMax, inf).
func inBand(price float64, tier string, b model.BudgetBands) bool {
	switch tier {
	case "low":
		return price < b.LowMax
	case "medium":
		return price >= b.LowMax && price < b.MediumMax
	case "high":
		return price >= b.MediumMax && price < b.HighMax
	case "luxury":
		return price >= b.HighMax
	default:
		return true
	}
}

// Audience keyword matchers. Precision here is deliberately loose: an item
// is dropped only when it strongly signals the opposite audience with no
// same-audience or unisex marker, so ambiguous items stay in. Matching is
// word-bounded, not plain substring: every women's marker contains its men's
// counterpart ("women's" contains "men's"), so unanchored matching would
// treat women's items as men's.
var (
	menPatterns    = compileKeywords("men's", "mens", "for men", "male", "menswear")
	womenPatterns  = compileKeywords("women's", "womens", "for women", "female", "womenswear", "ladies")
	unisexPatterns = compileKeywords("unisex", "gender neutral", "gender-neutral", "all genders")
)

func compileKeywords(keywords ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, k := range keywords {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return out
}

func audienceCompatible(it *model.CatalogItem, audience string) bool {
	text := strings.ToLower(it.CombinedText())

	var same, opposite []*regexp.Regexp
	switch strings.ToLower(audience) {
	case "women", "female":
		same, opposite = womenPatterns, menPatterns
	case "men", "male":
		same, opposite = menPatterns, womenPatterns
	default:
		return true
	}

	if matchesAny(text, same) || matchesAny(text, unisexPatterns) {
		return true
	}
	return !matchesAny(text, opposite)
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
