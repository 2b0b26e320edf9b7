package database

import (
	"log"

	"pazaryeri-backend/internal/config"
	"pazaryeri-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Franchise{},
		&models.User{},
		&models.Product{},
		&models.InventoryTransaction{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Stok sütunu veritabanı seviyesinde de negatif değer alamaz
	if err := DB.Exec(`
		ALTER TABLE products
		DROP CONSTRAINT IF EXISTS chk_products_stock_nonnegative
	`).Error; err != nil {
		log.Printf("Eski stok constraint kaldırılırken hata: %v", err)
	}
	if err := DB.Exec(`
		ALTER TABLE products
		ADD CONSTRAINT chk_products_stock_nonnegative CHECK (stock >= 0)
	`).Error; err != nil {
		log.Printf("Stok constraint eklenirken hata: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
