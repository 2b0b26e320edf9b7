package ledger

import (
	"sync"
	"time"

	"pazaryeri-backend/internal/models"
)

// MemoryStore: Veritabanı olmadan çalışan Store. Testlerde ve lokal
// denemelerde kullanılır; GormStore ile aynı sözleşmeyi uygular,
// koşullu yazma dahil.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]*models.Product
	entries  []*models.InventoryTransaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		products: make(map[uint]*models.Product),
	}
}

// SeedProduct: Test kurulumunda ürün ekler.
func (s *MemoryStore) SeedProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *MemoryStore) ProductForFranchise(franchiseID, productID uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || p.FranchiseID != franchiseID {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) AppendEntry(entry *models.InventoryTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[entry.ProductID]
	if !ok || p.FranchiseID != entry.FranchiseID {
		return ErrProductNotFound
	}
	if p.Stock != entry.PreviousStock {
		return ErrStaleStock
	}

	p.Stock = entry.NewStock
	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *MemoryStore) EntryByID(franchiseID, entryID uint) (*models.InventoryTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == entryID && e.FranchiseID == franchiseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrEntryNotFound
}

// EntriesForProduct: Ürünün hareketlerini oluşturulma sırasıyla döndürür.
func (s *MemoryStore) EntriesForProduct(franchiseID, productID uint) []models.InventoryTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.InventoryTransaction
	for _, e := range s.entries {
		if e.ProductID == productID && e.FranchiseID == franchiseID {
			out = append(out, *e)
		}
	}
	return out
}

// CurrentStock: Ürünün güncel stoğunu döndürür.
func (s *MemoryStore) CurrentStock(productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[productID]; ok {
		return p.Stock
	}
	return 0
}
