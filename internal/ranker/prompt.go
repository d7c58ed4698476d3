package ranker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stylesense/stylist-cli/internal/model"
)

// systemPrompt is the shared system instruction for ranking calls.
const systemPrompt = `You are an expert personal stylist. You are ranking catalog items for a specific shopper based on their body shape, color season, and preferences.

Rules:
- Judge ONLY the candidates provided; never invent items
- Return valid JSON for every response
- Score each chosen candidate 0-100 for how well it suits this shopper
- Refer to candidates only by their numeric index
- Each index must appear at most once
- Be concrete in rationale, size advice, and styling tips — the shopper reads them verbatim`

// BuildSystemPrompt assembles the full system text: shared instruction plus
// the static guidance block for the shopper's body shape and season.
func BuildSystemPrompt(bodyShape, season string) string {
	g := guidanceFor(bodyShape, season)
	if g == "" {
		return systemPrompt
	}
	return systemPrompt + "\n\n" + g
}

// BuildUserMessage serializes the profile and candidate list into the
// ranking request text.
func BuildUserMessage(profile model.ShopperProfile, candidates []model.RankingCandidate, count int, minScore float64) (string, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", err
	}
	candidatesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Shopper profile:\n")
	sb.Write(profileJSON)
	sb.WriteString("\n\nCandidates:\n")
	sb.Write(candidatesJSON)
	sb.WriteString(fmt.Sprintf(`

Select the %d best items for this shopper. Only include items scoring at least %.0f.

Respond with ONLY valid JSON in this format:
{
  "recommendations": [
    {
      "index": <candidate index>,
      "score": <0 to 100>,
      "rationale": "<why this suits the shopper>",
      "size_advice": "<which size to pick and why>",
      "styling_tip": "<how to wear it>"
    }
  ]
}`, count, minScore))

	return sb.String(), nil
}
