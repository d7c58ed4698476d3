// Package priority computes the cached per-item ranking boost from business
// attributes. The score has no absolute scale: it exists only to pre-sort a
// tenant's item cache for cheap top-K retrieval.
package priority

import (
	"math"
	"time"

	"github.com/stylesense/stylist-cli/internal/model"
)

// Compute converts business attributes into a scalar ranking boost. Pure and
// deterministic: each factor contributes only when its weight is positive and
// its required input is present; missing optional inputs skip their factor.
func Compute(in model.PriorityInputs, w model.PriorityWeights, now time.Time) float64 {
	var score float64

	score += newArrivalBoost(in, w, now)
	score += overstockBoost(in, w)
	score += slowMoverBoost(in, w)
	score += highMarginBoost(in, w)
	score += onSaleBoost(in, w)

	return math.Round(score*100) / 100
}

// newArrivalBoost decays linearly from the full weight at publish time to
// zero at the window edge.
func newArrivalBoost(in model.PriorityInputs, w model.PriorityWeights, now time.Time) float64 {
	if w.NewArrival <= 0 || w.NewArrivalWindowDays <= 0 || in.PublishedAt.IsZero() {
		return 0
	}
	days := now.Sub(in.PublishedAt).Hours() / 24
	window := float64(w.NewArrivalWindowDays)
	if days < 0 || days > window {
		return 0
	}
	return w.NewArrival * (1 - days/window)
}

// overstockBoost saturates at 3x the overstock threshold.
func overstockBoost(in model.PriorityInputs, w model.PriorityWeights) float64 {
	if w.Overstock <= 0 || w.OverstockThreshold <= 0 {
		return 0
	}
	if in.StockQty <= w.OverstockThreshold {
		return 0
	}
	ratio := float64(in.StockQty) / float64(3*w.OverstockThreshold)
	return w.Overstock * math.Min(ratio, 1)
}

// slowMoverBoost gives the full weight to an item with zero sales and zero
// to an item at the threshold. Unknown sales skip the factor.
func slowMoverBoost(in model.PriorityInputs, w model.PriorityWeights) float64 {
	if w.SlowMover <= 0 || w.SlowMoverThreshold <= 0 || in.TotalSold == nil {
		return 0
	}
	sold := *in.TotalSold
	if sold < 0 || sold >= w.SlowMoverThreshold {
		return 0
	}
	return w.SlowMover * (1 - float64(sold)/float64(w.SlowMoverThreshold))
}

// highMarginBoost treats margin as a percentage and clamps at 100.
func highMarginBoost(in model.PriorityInputs, w model.PriorityWeights) float64 {
	if w.HighMargin <= 0 || in.MarginPct == nil {
		return 0
	}
	margin := math.Min(math.Max(*in.MarginPct, 0), 100)
	return w.HighMargin * (margin / 100)
}

// onSaleBoost is binary: full weight when the item has a real markdown.
func onSaleBoost(in model.PriorityInputs, w model.PriorityWeights) float64 {
	if w.OnSale <= 0 {
		return 0
	}
	if in.CompareAtPrice > in.Price && in.Price > 0 {
		return w.OnSale
	}
	return 0
}

// InputsFromItem projects the priority inputs out of a cached item record.
func InputsFromItem(it model.CatalogItem) model.PriorityInputs {
	return model.PriorityInputs{
		Price:          it.Price,
		CompareAtPrice: it.CompareAtPrice,
		StockQty:       it.StockQty,
		PublishedAt:    it.PublishedAt,
		TotalSold:      it.TotalSold,
		MarginPct:      it.MarginPct,
	}
}
