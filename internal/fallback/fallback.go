// Package fallback is the deterministic ranking path used when the
// generative ranking service is disabled or unavailable. It never performs
// I/O and never fails.
package fallback

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/model"
)

// neutralScore is used when the body shape is unknown or the keyword list is
// empty: no discrimination possible, every item scores the same.
const neutralScore = 0.5

// shapeKeywords maps a body-shape label to the garment keywords that flatter
// it. Lists are intentionally small; the score is overlap count divided by
// list length.
var shapeKeywords = map[string][]string{
	"hourglass": {"wrap", "belted", "fitted", "high-waisted", "v-neck", "tailored"},
	"pear":      {"a-line", "empire", "boat neck", "structured shoulder", "wide-leg", "flared"},
	"apple":     {"empire", "v-neck", "flowy", "tunic", "straight-leg", "vertical"},
	"rectangle": {"peplum", "ruffle", "belted", "layered", "cropped", "wrap"},
	"inverted triangle": {
		"a-line", "wide-leg", "flared", "scoop neck", "full skirt", "bootcut",
	},
}

// Score returns a suitability score in [0,1] for an item given a body-shape
// label. Deterministic keyword overlap: matched keywords / list size.
func Score(item *model.CatalogItem, bodyShape string) float64 {
	keywords, ok := shapeKeywords[strings.ToLower(bodyShape)]
	if !ok || len(keywords) == 0 {
		return neutralScore
	}

	text := strings.ToLower(item.CombinedText())
	matched := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			matched++
		}
	}

	score := float64(matched) / float64(len(keywords))
	if score > 1 {
		score = 1
	}
	return score
}

// Rank scores every item and returns entries above minScore (0-100 scale),
// as indices into the input slice. Output order follows the input; the
// merger sorts by score.
func Rank(items []model.CatalogItem, bodyShape string, minScore float64) []model.RankedEntry {
	threshold := minScore / 100

	_, known := shapeKeywords[strings.ToLower(bodyShape)]

	entries := make([]model.RankedEntry, 0, len(items))
	for i := range items {
		s := Score(&items[i], bodyShape)
		if s < threshold {
			continue
		}
		entries = append(entries, model.RankedEntry{
			Index:     i,
			Score:     s * 100,
			Rationale: rationale(bodyShape, known),
		})
	}

	zap.L().Debug("fallback: ranked candidates",
		zap.String("body_shape", bodyShape),
		zap.Int("candidates", len(items)),
		zap.Int("kept", len(entries)),
	)
	return entries
}

func rationale(bodyShape string, known bool) string {
	if !known {
		return "Popular pick from this catalog"
	}
	return fmt.Sprintf("Style features suit a %s shape", strings.ToLower(bodyShape))
}
