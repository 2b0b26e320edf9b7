package ledger

import (
	"errors"

	"pazaryeri-backend/internal/models"

	"gorm.io/gorm"
)

// GormStore: Postgres üzerinde çalışan production store.
// Eşzamanlılık güvencesi koşullu UPDATE ile sağlanır: stok değerinin
// kendisi versiyon görevi görür. UPDATE ... WHERE stock = previousStock
// hiçbir satırı etkilemediyse araya başka bir hareket girmiş demektir;
// aynı previousStock'tan ikinci bir defter kaydı asla üretilmez.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ProductForFranchise(franchiseID, productID uint) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Where("id = ? AND franchise_id = ?", productID, franchiseID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) AppendEntry(entry *models.InventoryTransaction) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND franchise_id = ? AND stock = ?",
				entry.ProductID, entry.FranchiseID, entry.PreviousStock).
			Update("stock", entry.NewStock)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStock
		}
		return tx.Create(entry).Error
	})
}

func (s *GormStore) EntryByID(franchiseID, entryID uint) (*models.InventoryTransaction, error) {
	var entry models.InventoryTransaction
	err := s.db.
		Where("id = ? AND franchise_id = ?", entryID, franchiseID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
