package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: Bayiye ait ürün kaydı. Stock alanı yalnızca ledger.Recorder
// üzerinden değişir; katalog tarafı stock'a asla doğrudan yazmaz.
type Product struct {
	ID          uint `gorm:"primaryKey"`
	FranchiseID uint `gorm:"not null;index;uniqueIndex:idx_products_franchise_sku"`
	Franchise   Franchise
	SKU         string `gorm:"size:50;not null;uniqueIndex:idx_products_franchise_sku"` // Stok kodu (bayi içinde benzersiz)
	Name        string `gorm:"size:150;not null"`
	Unit        string `gorm:"size:20;not null"` // adet, kg, koli vs.

	Stock    int `gorm:"not null;default:0"` // eldeki miktar, hiçbir zaman negatif olmaz
	MinStock int `gorm:"not null;default:0"` // kritik stok eşiği

	CostPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"` // alış fiyatı
	SellingPrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"` // satış fiyatı

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
