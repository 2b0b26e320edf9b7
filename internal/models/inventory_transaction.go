package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType: Stok hareketinin türü. Azaltan türler (sale, damage,
// expired, transfer_out) stok düşer; adjustment iki yönlü çalışır,
// geri kalan türler stok artırır.
type TransactionType string

const (
	TransactionPurchase     TransactionType = "purchase"
	TransactionSale         TransactionType = "sale"
	TransactionAdjustment   TransactionType = "adjustment"
	TransactionReturn       TransactionType = "return"
	TransactionDamage       TransactionType = "damage"
	TransactionExpired      TransactionType = "expired"
	TransactionTransferIn   TransactionType = "transfer_in"
	TransactionTransferOut  TransactionType = "transfer_out"
	TransactionInitialStock TransactionType = "initial_stock"
	TransactionReorder      TransactionType = "reorder"
)

// Valid: tür enum listesinde mi?
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionPurchase, TransactionSale, TransactionAdjustment,
		TransactionReturn, TransactionDamage, TransactionExpired,
		TransactionTransferIn, TransactionTransferOut,
		TransactionInitialStock, TransactionReorder:
		return true
	}
	return false
}

// Depleting: stok azaltan tür mü? (adjustment dahil değildir,
// işaretini çağıran belirler)
func (t TransactionType) Depleting() bool {
	switch t {
	case TransactionSale, TransactionDamage, TransactionExpired, TransactionTransferOut:
		return true
	}
	return false
}

// InventoryTransaction: Stok defterindeki tek bir hareket kaydı.
// Kayıtlar yazıldıktan sonra asla güncellenmez veya silinmez;
// düzeltmeler yeni bir adjustment kaydı ile yapılır.
// UpdatedAt alanı bilinçli olarak yoktur.
type InventoryTransaction struct {
	ID          uint `gorm:"primaryKey"`
	FranchiseID uint `gorm:"not null;index:idx_txn_franchise_product,priority:1"`
	Franchise   Franchise
	ProductID   uint `gorm:"not null;index:idx_txn_franchise_product,priority:2"`
	Product     Product

	Type     TransactionType `gorm:"size:20;not null;index"`
	Quantity int             `gorm:"not null"` // işaretli delta (azaltan türlerde negatif)

	// Hareket anındaki stok zinciri: NewStock == PreviousStock + Quantity
	PreviousStock int `gorm:"not null"`
	NewStock      int `gorm:"not null"`

	// Opsiyonel maliyet bilgisi: TotalCost = CostPerUnit * |Quantity|
	CostPerUnit *decimal.Decimal `gorm:"type:decimal(20,4)"`
	TotalCost   *decimal.Decimal `gorm:"type:decimal(20,4)"`

	// Opsiyonel kaynak bilgileri
	ReferenceNumber string `gorm:"size:64;index"`
	BatchNumber     string `gorm:"size:64"`
	Supplier        string `gorm:"size:100"`
	ExpiryDate      *time.Time
	Note            string `gorm:"size:255"`

	// Hareketi kim yaptı (denormalize isim, audit için)
	PerformedBy     uint   `gorm:"not null;index"`
	PerformedByName string `gorm:"size:100"`

	CreatedAt time.Time `gorm:"index"`
}
