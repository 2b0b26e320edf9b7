package ledger

import (
	"errors"
	"fmt"
	"time"

	"pazaryeri-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Eşzamanlı çakışmada koşullu yazma bu kadar kez yeniden denenir,
// sonra ErrConcurrencyConflict döner.
const defaultMaxRetries = 5

// Recorder: Ürün stoğunu değiştirebilen TEK bileşen. Sipariş akışı,
// manuel hareketler ve toplu düzeltmeler dahil her stok değişimi
// buradan geçer; stok alanına başka hiçbir kod yazmaz.
type Recorder struct {
	store      Store
	maxRetries int
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, maxRetries: defaultMaxRetries}
}

type RecordInput struct {
	FranchiseID uint
	ProductID   uint
	Type        models.TransactionType

	// Quantity: Çağıran büyüklük gönderir, işareti tür belirler.
	// Tek istisna adjustment: sayım farkı iki yönlü olabileceği için
	// çağıranın işareti aynen korunur.
	Quantity int

	CostPerUnit     *decimal.Decimal
	ReferenceNumber string
	BatchNumber     string
	Supplier        string
	ExpiryDate      *time.Time
	Note            string

	PerformedBy     uint
	PerformedByName string
}

// Record: Hareketi doğrular, işareti normalize eder, yeni stoğu hesaplar
// ve defter kaydı ile stok güncellemesini tek atomik birim olarak yazar.
// Eşzamanlı çakışmada güncel stokla baştan hesaplayıp yeniden dener.
func (r *Recorder) Record(in RecordInput) (*models.InventoryTransaction, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidTransactionType
	}
	if in.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}

	qty := normalizeQuantity(in.Type, in.Quantity)

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		product, err := r.store.ProductForFranchise(in.FranchiseID, in.ProductID)
		if err != nil {
			return nil, err
		}

		newStock := product.Stock + qty
		if newStock < 0 {
			return nil, &InsufficientStockError{
				ProductID: product.ID,
				Requested: -qty,
				Available: product.Stock,
			}
		}

		entry := &models.InventoryTransaction{
			FranchiseID:     in.FranchiseID,
			ProductID:       in.ProductID,
			Type:            in.Type,
			Quantity:        qty,
			PreviousStock:   product.Stock,
			NewStock:        newStock,
			ReferenceNumber: in.ReferenceNumber,
			BatchNumber:     in.BatchNumber,
			Supplier:        in.Supplier,
			ExpiryDate:      in.ExpiryDate,
			Note:            in.Note,
			PerformedBy:     in.PerformedBy,
			PerformedByName: in.PerformedByName,
		}
		if entry.ReferenceNumber == "" {
			entry.ReferenceNumber = uuid.NewString()
		}
		if in.CostPerUnit != nil {
			cost := *in.CostPerUnit
			total := cost.Mul(decimal.NewFromInt(int64(abs(qty))))
			entry.CostPerUnit = &cost
			entry.TotalCost = &total
		}

		err = r.store.AppendEntry(entry)
		if errors.Is(err, ErrStaleStock) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return entry, nil
	}

	return nil, ErrConcurrencyConflict
}

// Reverse: Var olan bir kaydı, ters işaretli bir adjustment hareketiyle
// telafi eder. Defter değişmez; düzeltme her zaman yeni kayıtla yapılır.
func (r *Recorder) Reverse(franchiseID, entryID uint, performedBy uint, performedByName string) (*models.InventoryTransaction, error) {
	original, err := r.store.EntryByID(franchiseID, entryID)
	if err != nil {
		return nil, err
	}

	return r.Record(RecordInput{
		FranchiseID:     franchiseID,
		ProductID:       original.ProductID,
		Type:            models.TransactionAdjustment,
		Quantity:        -original.Quantity,
		ReferenceNumber: original.ReferenceNumber,
		Note:            fmt.Sprintf("Ters kayıt: hareket #%d", original.ID),
		PerformedBy:     performedBy,
		PerformedByName: performedByName,
	})
}

// normalizeQuantity: İşaret kuralının uygulandığı tek yer. Azaltan türler
// negatife, artıran türler pozitife çevrilir; adjustment olduğu gibi kalır.
// Çağıranın yanlışlıkla işaretli gönderdiği miktar çift negatife dönmez.
func normalizeQuantity(t models.TransactionType, quantity int) int {
	if t == models.TransactionAdjustment {
		return quantity
	}
	magnitude := abs(quantity)
	if t.Depleting() {
		return -magnitude
	}
	return magnitude
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
