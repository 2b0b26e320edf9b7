package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order: Bayi siparişi. Sipariş satırlarının stok düşümü sipariş
// oluşturulurken ledger.Recorder üzerinden "sale" hareketi olarak yapılır;
// iptal edilen siparişlerde stok "return" hareketiyle geri yüklenir.
type Order struct {
	ID          uint `gorm:"primaryKey"`
	FranchiseID uint `gorm:"not null;index"`
	Franchise   Franchise

	OrderNumber  string          `gorm:"size:64;not null;uniqueIndex"` // ledger kayıtlarıyla eşleşen referans
	Status       OrderStatus     `gorm:"size:20;not null;index"`
	CustomerName string          `gorm:"size:100"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Note         string          `gorm:"size:255"`

	CreatedBy     uint   `gorm:"not null"`
	CreatedByName string `gorm:"size:100"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem: Sipariş içindeki her ürün satırı.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"not null;index"`
	ProductID uint `gorm:"not null;index"`
	Product   Product

	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null"` // sipariş anındaki satış fiyatı
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt  time.Time
}
