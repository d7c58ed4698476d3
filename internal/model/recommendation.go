package model

// RankingCandidate is the view of a CatalogItem sent to the ranking service.
// Index is the position in the candidate array, not the persisted item id;
// it must be bounds-checked before being resolved back to an item.
type RankingCandidate struct {
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Price       float64  `json:"price"`
	InStock     bool     `json:"in_stock"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Seasons     []string `json:"seasons,omitempty"`
	Silhouette  string   `json:"silhouette,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
}

// RankedEntry is one entry of a ranking reply after boundary validation:
// a candidate index, a 0-100 score, and the explanatory text fields.
// Both the generative client and the fallback scorer emit this shape.
type RankedEntry struct {
	Index      int     `json:"index"`
	Score      float64 `json:"score"`
	Rationale  string  `json:"rationale,omitempty"`
	SizeAdvice string  `json:"size_advice,omitempty"`
	StylingTip string  `json:"styling_tip,omitempty"`
}

// Recommendation is one output unit: the resolved item plus a suitability
// score normalized to [0,1] and the human-readable notes.
type Recommendation struct {
	Item       CatalogItem `json:"item"`
	Score      float64     `json:"score"`
	SizeNote   string      `json:"size_note,omitempty"`
	Rationale  string      `json:"rationale,omitempty"`
	StylingTip string      `json:"styling_tip,omitempty"`
	Category   string      `json:"category"`
}
