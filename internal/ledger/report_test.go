package ledger

import (
	"testing"

	"pazaryeri-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterLowStock_ThresholdIsInclusive(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Un", Stock: 6, MinStock: 5},    // eşiğin üstünde
		{ID: 2, Name: "Şeker", Stock: 5, MinStock: 5}, // tam eşikte
		{ID: 3, Name: "Tuz", Stock: 0, MinStock: 5},
		{ID: 4, Name: "Kahve", Stock: 2, MinStock: 10},
	}

	low := FilterLowStock(products)

	require.Len(t, low, 3)
	assert.Equal(t, uint(3), low[0].ID)
	assert.Equal(t, uint(4), low[1].ID)
	assert.Equal(t, uint(2), low[2].ID)
}

func TestFilterLowStock_Empty(t *testing.T) {
	assert.Empty(t, FilterLowStock(nil))
	assert.Empty(t, FilterLowStock([]models.Product{{ID: 1, Stock: 9, MinStock: 3}}))
}

func TestBuildValuation_Totals(t *testing.T) {
	products := []models.Product{
		{ID: 1, SKU: "KHV-001", Name: "Kahve", Stock: 4,
			CostPrice: decimal.RequireFromString("2.50"), SellingPrice: decimal.RequireFromString("4.00")},
		{ID: 2, SKU: "SK-001", Name: "Şeker", Stock: 10,
			CostPrice: decimal.RequireFromString("1.25"), SellingPrice: decimal.RequireFromString("1.75")},
	}

	report := BuildValuation(products)

	require.Len(t, report.Rows, 2)
	assert.True(t, report.Rows[0].ValueAtCost.Equal(decimal.RequireFromString("10")))
	assert.True(t, report.Rows[0].ValueAtSelling.Equal(decimal.RequireFromString("16")))
	assert.True(t, report.Rows[0].PotentialProfit.Equal(decimal.RequireFromString("6")))

	assert.True(t, report.TotalAtCost.Equal(decimal.RequireFromString("22.5")), "toplam maliyet: %s", report.TotalAtCost)
	assert.True(t, report.TotalAtSelling.Equal(decimal.RequireFromString("33.5")), "toplam satış: %s", report.TotalAtSelling)
	assert.True(t, report.TotalPotentialProfit.Equal(decimal.RequireFromString("11")), "toplam kâr: %s", report.TotalPotentialProfit)
}

func TestBuildValuation_Empty(t *testing.T) {
	report := BuildValuation(nil)

	assert.Empty(t, report.Rows)
	assert.True(t, report.TotalAtCost.Equal(decimal.Zero))
	assert.True(t, report.TotalAtSelling.Equal(decimal.Zero))
	assert.True(t, report.TotalPotentialProfit.Equal(decimal.Zero))
}

func TestReplayEntries_ConsistentChain(t *testing.T) {
	entries := []models.InventoryTransaction{
		{Quantity: 100, PreviousStock: 50, NewStock: 150},
		{Quantity: -25, PreviousStock: 150, NewStock: 125},
		{Quantity: -5, PreviousStock: 125, NewStock: 120},
	}

	final, consistent := ReplayEntries(entries)
	assert.True(t, consistent)
	assert.Equal(t, 120, final)
}

func TestReplayEntries_DetectsBrokenLink(t *testing.T) {
	// İkinci kayıt ilkinin bıraktığı 150'den değil 140'tan başlıyor
	entries := []models.InventoryTransaction{
		{Quantity: 100, PreviousStock: 50, NewStock: 150},
		{Quantity: -25, PreviousStock: 140, NewStock: 115},
	}

	_, consistent := ReplayEntries(entries)
	assert.False(t, consistent)
}

func TestReplayEntries_DetectsBadArithmetic(t *testing.T) {
	entries := []models.InventoryTransaction{
		{Quantity: 10, PreviousStock: 50, NewStock: 61},
	}

	_, consistent := ReplayEntries(entries)
	assert.False(t, consistent)
}

func TestReplayEntries_Empty(t *testing.T) {
	final, consistent := ReplayEntries(nil)
	assert.True(t, consistent)
	assert.Equal(t, 0, final)
}
