package ledger

import "pazaryeri-backend/internal/models"

// Store: Recorder'ın stok ve defter üzerinde ihtiyaç duyduğu minimum yüzey.
// Production'da GormStore kullanılır; testler MemoryStore ile çalışır.
type Store interface {
	// ProductForFranchise: Ürünü bayi sahipliğini doğrulayarak getirir.
	// Ürün yoksa veya başka bayiye aitse ErrProductNotFound döner.
	ProductForFranchise(franchiseID, productID uint) (*models.Product, error)

	// AppendEntry: Defter kaydını ekler ve ürün stoğunu tek atomik birim
	// içinde PreviousStock'tan NewStock'a taşır. Stok bu arada başka bir
	// hareketle değiştiyse hiçbir şey yazmadan ErrStaleStock döner.
	AppendEntry(entry *models.InventoryTransaction) error

	// EntryByID: Tek bir defter kaydını bayi kapsamında getirir.
	EntryByID(franchiseID, entryID uint) (*models.InventoryTransaction, error)
}
