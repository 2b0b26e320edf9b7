package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound        = errors.New("ürün bulunamadı veya bu bayiye ait değil")
	ErrEntryNotFound          = errors.New("stok hareketi bulunamadı")
	ErrInvalidTransactionType = errors.New("geçersiz işlem tipi")
	ErrInvalidQuantity        = errors.New("miktar sıfırdan farklı bir tam sayı olmalı")

	// ErrStaleStock: Store'un koşullu yazması başka bir istek araya girdiği
	// için tutmadı. Recorder bunu yakalayıp yeniden dener, dışarı sızmaz.
	ErrStaleStock = errors.New("stok değeri bu arada değişti")

	// ErrConcurrencyConflict: Yeniden deneme bütçesi tükendi.
	ErrConcurrencyConflict = errors.New("stok kaydı eşzamanlı güncellendi, lütfen tekrar deneyin")
)

// InsufficientStockError: Hareket stoğu eksiye düşürecekti. İstenen ve
// mevcut miktarları taşır, handler bunları yanıt gövdesine koyar.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("yetersiz stok: istenen %d, mevcut %d", e.Requested, e.Available)
}
