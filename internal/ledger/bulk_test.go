package ledger

import (
	"testing"

	"pazaryeri-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBulk_IsolatesFailuresPerItem(t *testing.T) {
	store := NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "UN-001", Name: "Un", Unit: "kg", Stock: 10})
	store.SeedProduct(models.Product{ID: 2, FranchiseID: 1, SKU: "SK-001", Name: "Şeker", Unit: "kg", Stock: 2})
	store.SeedProduct(models.Product{ID: 3, FranchiseID: 1, SKU: "TZ-001", Name: "Tuz", Unit: "kg", Stock: 30})
	store.SeedProduct(models.Product{ID: 4, FranchiseID: 1, SKU: "PR-001", Name: "Pirinç", Unit: "kg", Stock: 1})
	rec := NewRecorder(store)

	result := rec.ApplyBulk(BulkInput{
		FranchiseID: 1,
		Reason:      "Yıl sonu sayımı",
		Items: []BulkItem{
			{ProductID: 1, Quantity: -5},
			{ProductID: 2, Quantity: -5}, // stok 2, eksiye düşerdi
			{ProductID: 3, Quantity: 7},
			{ProductID: 4, Quantity: -3}, // stok 1, eksiye düşerdi
			{ProductID: 1, Quantity: 2},
		},
		PerformedBy:     7,
		PerformedByName: "Bayi Admin",
	})

	require.Len(t, result.Successes, 3)
	require.Len(t, result.Failures, 2)

	// Geçerli kalemler uygulanır, düşemeyenlerin stoğu yerinde kalır
	assert.Equal(t, 7, store.CurrentStock(1))
	assert.Equal(t, 2, store.CurrentStock(2))
	assert.Equal(t, 37, store.CurrentStock(3))
	assert.Equal(t, 1, store.CurrentStock(4))

	assert.Equal(t, uint(2), result.Failures[0].ProductID)
	assert.Contains(t, result.Failures[0].Error, "yetersiz stok")
	assert.Equal(t, uint(4), result.Failures[1].ProductID)
	assert.Contains(t, result.Failures[1].Error, "yetersiz stok")

	// Başarısız ürünlerin defterine hiçbir kayıt düşmez
	assert.Empty(t, store.EntriesForProduct(1, 2))
	assert.Empty(t, store.EntriesForProduct(1, 4))
}

func TestApplyBulk_UnknownProductFails(t *testing.T) {
	store := NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "UN-001", Name: "Un", Unit: "kg", Stock: 10})
	rec := NewRecorder(store)

	result := rec.ApplyBulk(BulkInput{
		FranchiseID: 1,
		Reason:      "Sayım",
		Items: []BulkItem{
			{ProductID: 1, Quantity: 3},
			{ProductID: 99, Quantity: 1}, // yok
		},
		PerformedBy: 7,
	})

	require.Len(t, result.Successes, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, uint(99), result.Failures[0].ProductID)
	assert.Contains(t, result.Failures[0].Error, "bulunamadı")
	assert.Equal(t, 13, store.CurrentStock(1))
}

func TestApplyBulk_ItemsAreAdjustments(t *testing.T) {
	store := NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "UN-001", Name: "Un", Unit: "kg", Stock: 10})
	rec := NewRecorder(store)

	result := rec.ApplyBulk(BulkInput{
		FranchiseID: 1,
		Reason:      "Sayım farkı",
		Items:       []BulkItem{{ProductID: 1, Quantity: -4}},
		PerformedBy: 7,
	})

	require.Len(t, result.Successes, 1)
	entry := result.Successes[0]
	assert.Equal(t, models.TransactionAdjustment, entry.Type)
	assert.Equal(t, -4, entry.Quantity)
	assert.Equal(t, "Sayım farkı", entry.Note)
}

func TestApplyBulk_ItemNoteOverridesReason(t *testing.T) {
	store := NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "UN-001", Name: "Un", Unit: "kg", Stock: 10})
	store.SeedProduct(models.Product{ID: 2, FranchiseID: 1, SKU: "SK-001", Name: "Şeker", Unit: "kg", Stock: 10})
	rec := NewRecorder(store)

	result := rec.ApplyBulk(BulkInput{
		FranchiseID: 1,
		Reason:      "Sayım",
		Items: []BulkItem{
			{ProductID: 1, Quantity: 1, Note: "Raf arkasında bulundu"},
			{ProductID: 2, Quantity: 1},
		},
		PerformedBy: 7,
	})

	require.Len(t, result.Successes, 2)
	assert.Equal(t, "Raf arkasında bulundu", result.Successes[0].Note)
	assert.Equal(t, "Sayım", result.Successes[1].Note)
}

func TestApplyBulk_SameProductTwiceChainsSequentially(t *testing.T) {
	store := NewMemoryStore()
	store.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "UN-001", Name: "Un", Unit: "kg", Stock: 10})
	rec := NewRecorder(store)

	result := rec.ApplyBulk(BulkInput{
		FranchiseID: 1,
		Reason:      "Sayım",
		Items: []BulkItem{
			{ProductID: 1, Quantity: -3},
			{ProductID: 1, Quantity: -4},
		},
		PerformedBy: 7,
	})

	require.Len(t, result.Successes, 2)
	assert.Equal(t, 10, result.Successes[0].PreviousStock)
	assert.Equal(t, 7, result.Successes[0].NewStock)
	assert.Equal(t, 7, result.Successes[1].PreviousStock)
	assert.Equal(t, 3, result.Successes[1].NewStock)
	assert.Equal(t, 3, store.CurrentStock(1))
}
