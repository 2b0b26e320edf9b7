package models

import "time"

// Franchise: Pazaryerindeki her bayi kendi ürün ve stok verisine sahiptir.
// Tüm stok hareketleri bayi bazında tutulur.
type Franchise struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"` // Opsiyonel telefon
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
