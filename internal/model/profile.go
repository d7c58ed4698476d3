package model

// Measurements holds optional structured body measurements in centimeters.
type Measurements struct {
	BustCm   float64 `json:"bust_cm,omitempty"`
	WaistCm  float64 `json:"waist_cm,omitempty"`
	HipCm    float64 `json:"hip_cm,omitempty"`
	HeightCm float64 `json:"height_cm,omitempty"`
}

// ShopperValues holds optional values and preferences attached to a profile.
type ShopperValues struct {
	Sustainability bool     `json:"sustainability,omitempty"`
	BudgetTier     string   `json:"budget_tier,omitempty"`
	StyleTags      []string `json:"style_tags,omitempty"`
}

// ShopperProfile describes the shopper for one recommendation request. It is
// constructed per request and never persisted by the engine.
type ShopperProfile struct {
	BodyShape            string         `json:"body_shape"`
	Measurements         *Measurements  `json:"measurements,omitempty"`
	ColorSeason          string         `json:"color_season,omitempty"`
	ColorCharacteristics []string       `json:"color_characteristics,omitempty"`
	Values               *ShopperValues `json:"values,omitempty"`
}

// BudgetTier returns the profile's budget tier name, or "" when unset.
func (p *ShopperProfile) BudgetTier() string {
	if p.Values == nil {
		return ""
	}
	return p.Values.BudgetTier
}
