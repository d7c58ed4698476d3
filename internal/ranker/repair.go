package ranker

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/stylesense/stylist-cli/internal/model"
)

// ErrUnparseable marks a reply the repair ladder could not salvage. It is a
// data-shape problem, never retried; the caller takes the fallback path.
var ErrUnparseable = eris.New("ranker: unparseable ranking reply")

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	resultsArrayRe  = regexp.MustCompile(`(?s)"recommendations"\s*:\s*(\[.*\])`)
)

// rawEntry decodes one reply entry with pointer fields so missing index or
// score can be told apart from zero.
type rawEntry struct {
	Index      *int     `json:"index"`
	Score      *float64 `json:"score"`
	Rationale  string   `json:"rationale"`
	SizeAdvice string   `json:"size_advice"`
	StylingTip string   `json:"styling_tip"`
}

type rankingReply struct {
	Recommendations []rawEntry `json:"recommendations"`
}

// parseReply runs the repair ladder over a raw reply: strip fences, strict
// parse, strip trailing commas, extract just the recommendations array. Each
// stage only runs if the previous one failed to produce a parse.
func parseReply(text string) ([]rawEntry, error) {
	cleaned := cleanJSON(text)

	if entries, err := decodeReply(cleaned); err == nil {
		return entries, nil
	}

	repaired := trailingCommaRe.ReplaceAllString(cleaned, "$1")
	if entries, err := decodeReply(repaired); err == nil {
		return entries, nil
	}

	if m := resultsArrayRe.FindStringSubmatch(repaired); m != nil {
		envelope := `{"recommendations":` + m[1] + `}`
		if entries, err := decodeReply(envelope); err == nil {
			return entries, nil
		}
	}

	return nil, ErrUnparseable
}

func decodeReply(text string) ([]rawEntry, error) {
	var reply rankingReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return nil, err
	}
	return reply.Recommendations, nil
}

// cleanJSON strips markdown fences and extracts the JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// validateEntries drops entries with a missing or out-of-range index, a
// missing or negative score, or a score below minScore. Dropped entries are
// counted, never escalated; duplicate indices are left for the merger.
func validateEntries(entries []rawEntry, candidateCount int, minScore float64) (kept []model.RankedEntry, dropped int) {
	kept = make([]model.RankedEntry, 0, len(entries))
	for _, e := range entries {
		if e.Index == nil || e.Score == nil {
			dropped++
			continue
		}
		if *e.Index < 0 || *e.Index >= candidateCount {
			dropped++
			continue
		}
		if *e.Score < 0 || *e.Score < minScore {
			dropped++
			continue
		}
		kept = append(kept, model.RankedEntry{
			Index:      *e.Index,
			Score:      *e.Score,
			Rationale:  e.Rationale,
			SizeAdvice: e.SizeAdvice,
			StylingTip: e.StylingTip,
		})
	}
	return kept, dropped
}
