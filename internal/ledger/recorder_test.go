package ledger

import (
	"sync"
	"testing"

	"pazaryeri-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(stock int) *MemoryStore {
	s := NewMemoryStore()
	s.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "KHV-001", Name: "Kahve", Unit: "kg", Stock: stock, MinStock: 5})
	return s
}

// hookStore: AppendEntry'den hemen önce araya giren eşzamanlı yazarı
// taklit eder.
type hookStore struct {
	*MemoryStore
	beforeAppend func(call int)
	calls        int
}

func (s *hookStore) AppendEntry(entry *models.InventoryTransaction) error {
	s.calls++
	if s.beforeAppend != nil {
		s.beforeAppend(s.calls)
	}
	return s.MemoryStore.AppendEntry(entry)
}

func TestRecord_ChainAcrossTransactionTypes(t *testing.T) {
	store := seededStore(50)
	rec := NewRecorder(store)

	purchase, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionPurchase, Quantity: 100, PerformedBy: 7})
	require.NoError(t, err)
	assert.Equal(t, 50, purchase.PreviousStock)
	assert.Equal(t, 150, purchase.NewStock)
	assert.Equal(t, 100, purchase.Quantity)

	sale, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 25, PerformedBy: 7})
	require.NoError(t, err)
	assert.Equal(t, 150, sale.PreviousStock)
	assert.Equal(t, 125, sale.NewStock)
	assert.Equal(t, -25, sale.Quantity)

	damage, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionDamage, Quantity: 5, PerformedBy: 7})
	require.NoError(t, err)
	assert.Equal(t, 125, damage.PreviousStock)
	assert.Equal(t, 120, damage.NewStock)

	assert.Equal(t, 120, store.CurrentStock(1))

	entries := store.EntriesForProduct(1, 1)
	require.Len(t, entries, 3)
	final, consistent := ReplayEntries(entries)
	assert.True(t, consistent)
	assert.Equal(t, 120, final)
}

func TestRecord_HistoryPrefixStaysUntouched(t *testing.T) {
	store := seededStore(50)
	rec := NewRecorder(store)

	_, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionPurchase, Quantity: 100, PerformedBy: 7})
	require.NoError(t, err)
	_, err = rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 25, PerformedBy: 7})
	require.NoError(t, err)

	before := store.EntriesForProduct(1, 1)
	require.Len(t, before, 2)

	_, err = rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionDamage, Quantity: 5, PerformedBy: 7})
	require.NoError(t, err)

	// Yeni hareket eski kayıtları değiştirmez, sadece sona eklenir
	after := store.EntriesForProduct(1, 1)
	require.Len(t, after, 3)
	assert.Equal(t, before, after[:2])
}

func TestRecord_RejectsInsufficientStock(t *testing.T) {
	store := seededStore(10)
	rec := NewRecorder(store)

	_, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 25, PerformedBy: 7})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(1), insufficient.ProductID)
	assert.Equal(t, 25, insufficient.Requested)
	assert.Equal(t, 10, insufficient.Available)

	// Reddedilen hareket ne stok değiştirir ne de deftere yazılır
	assert.Equal(t, 10, store.CurrentStock(1))
	assert.Empty(t, store.EntriesForProduct(1, 1))
}

func TestRecord_DrainToExactlyZeroSucceeds(t *testing.T) {
	store := seededStore(10)
	rec := NewRecorder(store)

	entry, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 10, PerformedBy: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, entry.NewStock)
	assert.Equal(t, 0, store.CurrentStock(1))
}

func TestRecord_NormalizesSignByType(t *testing.T) {
	cases := []struct {
		name     string
		typ      models.TransactionType
		quantity int
		want     int
	}{
		{"sale is negative", models.TransactionSale, 5, -5},
		{"sale stays negative when caller pre-signs", models.TransactionSale, -5, -5},
		{"purchase is positive", models.TransactionPurchase, 7, 7},
		{"purchase flips a negative caller value", models.TransactionPurchase, -7, 7},
		{"damage is negative", models.TransactionDamage, 3, -3},
		{"expired is negative", models.TransactionExpired, 2, -2},
		{"transfer_out is negative", models.TransactionTransferOut, 4, -4},
		{"transfer_in is positive", models.TransactionTransferIn, 4, 4},
		{"return is positive", models.TransactionReturn, 6, 6},
		{"adjustment keeps negative caller sign", models.TransactionAdjustment, -3, -3},
		{"adjustment keeps positive caller sign", models.TransactionAdjustment, 4, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore(100)
			rec := NewRecorder(store)

			entry, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: tc.typ, Quantity: tc.quantity, PerformedBy: 7})
			require.NoError(t, err)
			assert.Equal(t, tc.want, entry.Quantity)
			assert.Equal(t, 100+tc.want, entry.NewStock)
		})
	}
}

func TestRecord_Validation(t *testing.T) {
	store := seededStore(10)
	rec := NewRecorder(store)

	_, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: "teleport", Quantity: 5})
	assert.ErrorIs(t, err, ErrInvalidTransactionType)

	_, err = rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = rec.Record(RecordInput{FranchiseID: 1, ProductID: 99, Type: models.TransactionSale, Quantity: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)

	// Başka bayinin ürünü, yokmuş gibi davranılır
	_, err = rec.Record(RecordInput{FranchiseID: 2, ProductID: 1, Type: models.TransactionSale, Quantity: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.Empty(t, store.EntriesForProduct(1, 1))
}

func TestRecord_ComputesTotalCostFromMagnitude(t *testing.T) {
	store := seededStore(50)
	rec := NewRecorder(store)

	cost := decimal.RequireFromString("12.5")
	entry, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 4, CostPerUnit: &cost, PerformedBy: 7})
	require.NoError(t, err)

	require.NotNil(t, entry.CostPerUnit)
	require.NotNil(t, entry.TotalCost)
	assert.True(t, entry.CostPerUnit.Equal(cost))
	assert.True(t, entry.TotalCost.Equal(decimal.RequireFromString("50")), "miktar negatif olsa da toplam maliyet pozitif: %s", entry.TotalCost)
}

func TestRecord_ReferenceNumber(t *testing.T) {
	store := seededStore(50)
	rec := NewRecorder(store)

	entry, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionPurchase, Quantity: 5, PerformedBy: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ReferenceNumber)

	entry, err = rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionPurchase, Quantity: 5, ReferenceNumber: "PO-2024-001", PerformedBy: 7})
	require.NoError(t, err)
	assert.Equal(t, "PO-2024-001", entry.ReferenceNumber)
}

func TestRecord_RetriesWithFreshStock(t *testing.T) {
	store := &hookStore{MemoryStore: seededStore(50)}
	store.beforeAppend = func(call int) {
		// İlk denemede araya başka bir yazar girer
		if call == 1 {
			store.MemoryStore.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "KHV-001", Name: "Kahve", Unit: "kg", Stock: 47, MinStock: 5})
		}
	}
	rec := NewRecorder(store)

	entry, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 5, PerformedBy: 7})
	require.NoError(t, err)

	// İkinci deneme güncel stoktan hesaplar, bayat 50 değerinden değil
	assert.Equal(t, 2, store.calls)
	assert.Equal(t, 47, entry.PreviousStock)
	assert.Equal(t, 42, entry.NewStock)
	assert.Equal(t, 42, store.CurrentStock(1))
}

func TestRecord_ConflictAfterRetryBudget(t *testing.T) {
	store := &hookStore{MemoryStore: seededStore(50)}
	store.beforeAppend = func(call int) {
		// Her denemede stok yeniden değişir, koşullu yazma hiç tutmaz
		store.MemoryStore.SeedProduct(models.Product{ID: 1, FranchiseID: 1, SKU: "KHV-001", Name: "Kahve", Unit: "kg", Stock: 100 + call, MinStock: 5})
	}
	rec := NewRecorder(store)

	_, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 5, PerformedBy: 7})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, defaultMaxRetries+1, store.calls)
}

func TestRecord_ConcurrentWritersKeepChainGapless(t *testing.T) {
	const writers = 8

	store := seededStore(50)
	rec := &Recorder{store: store, maxRetries: 100}

	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 1, PerformedBy: 7})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	entries := store.EntriesForProduct(1, 1)
	require.Len(t, entries, writers)
	assert.Equal(t, 50, entries[0].PreviousStock)

	final, consistent := ReplayEntries(entries)
	assert.True(t, consistent, "zincirde kopukluk var")
	assert.Equal(t, 50-writers, final)
	assert.Equal(t, 50-writers, store.CurrentStock(1))
}

func TestReverse_CompensatesWithOppositeAdjustment(t *testing.T) {
	store := seededStore(50)
	rec := NewRecorder(store)

	sale, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 25, ReferenceNumber: "ORD-42", PerformedBy: 7})
	require.NoError(t, err)
	require.Equal(t, 25, store.CurrentStock(1))

	reversal, err := rec.Reverse(1, sale.ID, 9, "Merkez Admin")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionAdjustment, reversal.Type)
	assert.Equal(t, 25, reversal.Quantity)
	assert.Equal(t, "ORD-42", reversal.ReferenceNumber)
	assert.Equal(t, 50, store.CurrentStock(1))

	// Orijinal kayıt yerinde durur, defter iki kayıt içerir
	entries := store.EntriesForProduct(1, 1)
	require.Len(t, entries, 2)
	assert.Equal(t, -25, entries[0].Quantity)
}

func TestReverse_AdditiveEntryCanHitInsufficientStock(t *testing.T) {
	store := seededStore(0)
	rec := NewRecorder(store)

	purchase, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionPurchase, Quantity: 30, PerformedBy: 7})
	require.NoError(t, err)

	_, err = rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 30, PerformedBy: 7})
	require.NoError(t, err)

	// Mal çoktan satıldı, alış kaydını ters çevirmek stoğu eksiye düşürürdü
	_, err = rec.Reverse(1, purchase.ID, 9, "Merkez Admin")
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 30, insufficient.Requested)
	assert.Equal(t, 0, insufficient.Available)
}

func TestReverse_UnknownEntry(t *testing.T) {
	rec := NewRecorder(seededStore(50))

	_, err := rec.Reverse(1, 999, 9, "Merkez Admin")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestReverse_ScopedToFranchise(t *testing.T) {
	store := seededStore(50)
	rec := NewRecorder(store)

	sale, err := rec.Record(RecordInput{FranchiseID: 1, ProductID: 1, Type: models.TransactionSale, Quantity: 5, PerformedBy: 7})
	require.NoError(t, err)

	_, err = rec.Reverse(2, sale.ID, 9, "Merkez Admin")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}
