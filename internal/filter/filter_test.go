package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylesense/stylist-cli/internal/model"
)

func item(id string, price float64, opts ...func(*model.CatalogItem)) model.CatalogItem {
	it := model.CatalogItem{
		TenantID: "t1",
		ItemID:   id,
		Title:    "Item " + id,
		Price:    price,
		InStock:  true,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

func withSeasons(seasons ...string) func(*model.CatalogItem) {
	return func(it *model.CatalogItem) {
		it.Visual = &model.VisualAnalysis{Seasons: seasons}
	}
}

func TestApply_PriceSanity(t *testing.T) {
	items := []model.CatalogItem{
		item("a", 10),
		item("b", 0),
		item("c", -5),
		item("d", 20),
	}

	out := Apply(items, Constraints{})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ItemID)
	assert.Equal(t, "d", out[1].ItemID)
}

func TestApply_InStockOnly(t *testing.T) {
	oos := item("b", 15)
	oos.InStock = false
	items := []model.CatalogItem{item("a", 10), oos, item("c", 20)}

	out := Apply(items, Constraints{InStockOnly: true})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ItemID)
	assert.Equal(t, "c", out[1].ItemID)

	// Without the flag, out-of-stock items survive.
	out = Apply(items, Constraints{})
	assert.Len(t, out, 3)
}

func TestApply_SeasonPreservesOrder(t *testing.T) {
	items := []model.CatalogItem{
		item("0", 10, withSeasons("Spring", "Summer")),
		item("1", 10, withSeasons("Winter")),
		item("2", 10, withSeasons("spring")),
		item("3", 10),
		item("4", 10, withSeasons("Spring")),
		item("5", 10, withSeasons("Autumn")),
		item("6", 10, withSeasons("Spring")),
		item("7", 10, withSeasons("Summer")),
		item("8", 10, withSeasons("Spring")),
		item("9", 10, withSeasons("Spring")),
	}

	out := Apply(items, Constraints{Season: "Spring"})
	require.Len(t, out, 6)
	want := []string{"0", "2", "4", "6", "8", "9"}
	for i, id := range want {
		assert.Equal(t, id, out[i].ItemID)
	}
}

func TestApply_SeasonNoMatchesReturnsEmpty(t *testing.T) {
	items := []model.CatalogItem{
		item("a", 10, withSeasons("Winter")),
		item("b", 10),
	}
	out := Apply(items, Constraints{Season: "Summer"})
	assert.Empty(t, out)
}

func TestApply_BudgetBandHalfOpen(t *testing.T) {
	bands := model.BudgetBands{LowMax: 30, MediumMax: 80, HighMax: 200}
	items := []model.CatalogItem{
		item("cheap", 25),
		item("mid", 45),
		item("edge", 80),
		item("lux", 250),
	}

	out := Apply(items, Constraints{BudgetTier: "medium", Bands: bands})
	require.Len(t, out, 1)
	assert.Equal(t, "mid", out[0].ItemID)

	// $80 falls in the next band up.
	out = Apply(items, Constraints{BudgetTier: "high", Bands: bands})
	require.Len(t, out, 1)
	assert.Equal(t, "edge", out[0].ItemID)

	out = Apply(items, Constraints{BudgetTier: "luxury", Bands: bands})
	require.Len(t, out, 1)
	assert.Equal(t, "lux", out[0].ItemID)
}

func TestApply_UnknownTierIsNoOp(t *testing.T) {
	bands := model.BudgetBands{LowMax: 30, MediumMax: 80, HighMax: 200}
	items := []model.CatalogItem{item("a", 25), item("b", 45)}

	out := Apply(items, Constraints{BudgetTier: "premium", Bands: bands})
	assert.Len(t, out, 2)
}

func TestApply_AudienceBiasTowardInclusion(t *testing.T) {
	mens := item("m", 40)
	mens.Title = "Men's Oxford Shirt"
	womens := item("w", 40)
	womens.Title = "Women's Silk Blouse"
	unisex := item("u", 40)
	unisex.Description = "Unisex relaxed fit hoodie"
	neutral := item("n", 40)
	neutral.Title = "Wool Scarf"

	items := []model.CatalogItem{mens, womens, unisex, neutral}

	out := Apply(items, Constraints{Audience: "women"})
	ids := itemIDs(out)
	assert.NotContains(t, ids, "m")
	assert.Contains(t, ids, "w")
	assert.Contains(t, ids, "u")
	// Ambiguous items are kept.
	assert.Contains(t, ids, "n")

	out = Apply(items, Constraints{Audience: "men"})
	ids = itemIDs(out)
	assert.Contains(t, ids, "m")
	assert.NotContains(t, ids, "w")
	assert.Contains(t, ids, "u")
	assert.Contains(t, ids, "n")
}

func TestApply_AudienceSubstringAliases(t *testing.T) {
	// Every women's marker contains its men's counterpart as a substring,
	// so these only pass with word-bounded matching.
	dress := item("dress", 60)
	dress.Title = "Women's Floral Wrap Dress"
	womenswear := item("ww", 90)
	womenswear.Description = "From our womenswear collection"
	ladies := item("ladies", 35)
	ladies.Tags = []string{"ladies"}
	menswear := item("mw", 120)
	menswear.Title = "Menswear Wool Jacket"

	items := []model.CatalogItem{dress, womenswear, ladies, menswear}

	out := Apply(items, Constraints{Audience: "men"})
	ids := itemIDs(out)
	assert.NotContains(t, ids, "dress")
	assert.NotContains(t, ids, "ww")
	assert.NotContains(t, ids, "ladies")
	assert.Contains(t, ids, "mw")

	out = Apply(items, Constraints{Audience: "women"})
	ids = itemIDs(out)
	assert.Contains(t, ids, "dress")
	assert.Contains(t, ids, "ww")
	assert.Contains(t, ids, "ladies")
	assert.NotContains(t, ids, "mw")
}

func TestApply_Idempotent(t *testing.T) {
	bands := model.BudgetBands{LowMax: 30, MediumMax: 80, HighMax: 200}
	c := Constraints{
		Season:      "Spring",
		BudgetTier:  "medium",
		Bands:       bands,
		InStockOnly: true,
	}

	items := []model.CatalogItem{
		item("a", 45, withSeasons("Spring")),
		item("b", 45, withSeasons("Winter")),
		item("c", 25, withSeasons("Spring")),
		item("d", 60, withSeasons("Spring")),
	}

	once := Apply(items, c)
	twice := Apply(once, c)
	assert.Equal(t, once, twice)
}

func itemIDs(items []model.CatalogItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ItemID
	}
	return ids
}
