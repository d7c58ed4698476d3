package model

import "time"

// VisualAnalysis holds the optional image-analysis fields produced by the
// catalog ingestion job. Items imported without analysis leave this nil; the
// engine treats both shapes as one record type.
type VisualAnalysis struct {
	Colors        []string `json:"colors,omitempty"`
	Seasons       []string `json:"seasons,omitempty"`
	Silhouette    string   `json:"silhouette,omitempty"`
	StyleTags     []string `json:"style_tags,omitempty"`
	Fabric        string   `json:"fabric,omitempty"`
	DesignDetails []string `json:"design_details,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
}

// CatalogItem is one cached catalog record, keyed by (tenant, item id).
// PriorityScore is a precomputed ordering hint; it is only comparable
// between items of the same tenant and carries no absolute meaning.
type CatalogItem struct {
	TenantID    string   `json:"tenant_id"`
	ItemID      string   `json:"item_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`

	Price          float64  `json:"price"`
	CompareAtPrice float64  `json:"compare_at_price,omitempty"`
	InStock        bool     `json:"in_stock"`
	StockQty       int      `json:"stock_qty"`
	Sizes          []string `json:"sizes,omitempty"`

	PublishedAt time.Time `json:"published_at,omitempty"`
	TotalSold   *int      `json:"total_sold,omitempty"`
	MarginPct   *float64  `json:"margin_pct,omitempty"`

	Visual *VisualAnalysis `json:"visual,omitempty"`

	PriorityScore        float64   `json:"priority_score"`
	PriorityCalculatedAt time.Time `json:"priority_calculated_at,omitempty"`
}

// CombinedText returns the item's searchable text fields joined for keyword
// matching (title, description, category, tags, and visual style tags).
func (it *CatalogItem) CombinedText() string {
	parts := make([]string, 0, 4+len(it.Tags))
	parts = append(parts, it.Title, it.Description, it.Category)
	parts = append(parts, it.Tags...)
	if it.Visual != nil {
		parts = append(parts, it.Visual.StyleTags...)
		parts = append(parts, it.Visual.Silhouette, it.Visual.Pattern)
	}
	return joinNonEmpty(parts, " ")
}

// SeasonTags returns the item's season compatibility tags, empty when the
// item has no visual analysis.
func (it *CatalogItem) SeasonTags() []string {
	if it.Visual == nil {
		return nil
	}
	return it.Visual.Seasons
}

func joinNonEmpty(parts []string, sep string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

// PriorityInputs is the ephemeral view of a CatalogItem that the priority
// calculator consumes. Optional inputs are pointers: nil skips the factor.
type PriorityInputs struct {
	Price          float64
	CompareAtPrice float64
	StockQty       int
	PublishedAt    time.Time
	TotalSold      *int
	MarginPct      *float64
}

// PriorityWeights holds the tenant-scoped boost weights (0-100 each; 0
// disables the factor) and threshold parameters. Factors are additive.
type PriorityWeights struct {
	NewArrival float64 `json:"new_arrival" yaml:"new_arrival"`
	Overstock  float64 `json:"overstock" yaml:"overstock"`
	SlowMover  float64 `json:"slow_mover" yaml:"slow_mover"`
	HighMargin float64 `json:"high_margin" yaml:"high_margin"`
	OnSale     float64 `json:"on_sale" yaml:"on_sale"`

	NewArrivalWindowDays int `json:"new_arrival_window_days" yaml:"new_arrival_window_days"`
	OverstockThreshold   int `json:"overstock_threshold" yaml:"overstock_threshold"`
	SlowMoverThreshold   int `json:"slow_mover_threshold" yaml:"slow_mover_threshold"`
}

// BudgetBands maps budget tier names to price bands. Each band is half-open:
// low = [0, LowMax), medium = [LowMax, MediumMax), high = [MediumMax,
// HighMax), luxury = [HighMax, inf).
type BudgetBands struct {
	LowMax    float64 `json:"low_max" yaml:"low_max"`
	MediumMax float64 `json:"medium_max" yaml:"medium_max"`
	HighMax   float64 `json:"high_max" yaml:"high_max"`
}

// TenantSettingsRecord is the persisted per-tenant settings row. All fields
// except TenantID are optional; nil means "use the configured default".
type TenantSettingsRecord struct {
	TenantID          string           `json:"tenant_id"`
	Enabled           *bool            `json:"enabled,omitempty"`
	Model             string           `json:"model,omitempty"`
	RequestsPerMinute int              `json:"requests_per_minute,omitempty"`
	Weights           *PriorityWeights `json:"weights,omitempty"`
	Bands             *BudgetBands     `json:"bands,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at,omitempty"`
}
