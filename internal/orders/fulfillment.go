package orders

import (
	"errors"
	"fmt"
	"log"

	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// fulfillLines: Sipariş satırlarının stok düşümü. Her satır Recorder
// üzerinden sale hareketi olarak yazılır. Bir satır başarısız olursa o ana
// kadar yazılmış satırlar ters adjustment ile telafi edilir ve hata döner;
// sipariş ya tamamen düşer ya hiç düşmez. Başarıda yazılan kayıtlar döner,
// çağıran sipariş kaydı da başarısız olursa bunları telafi ettirebilir.
func fulfillLines(rec *ledger.Recorder, order *models.Order, performedBy uint, performedByName string) ([]*models.InventoryTransaction, error) {
	var recorded []*models.InventoryTransaction

	for _, item := range order.Items {
		entry, err := rec.Record(ledger.RecordInput{
			FranchiseID:     order.FranchiseID,
			ProductID:       item.ProductID,
			Type:            models.TransactionSale,
			Quantity:        item.Quantity,
			ReferenceNumber: order.OrderNumber,
			Note:            fmt.Sprintf("Sipariş %s", order.OrderNumber),
			PerformedBy:     performedBy,
			PerformedByName: performedByName,
		})
		if err != nil {
			compensateEntries(rec, order, recorded, performedBy, performedByName)
			return nil, fmt.Errorf("ürün %d: %w", item.ProductID, err)
		}
		recorded = append(recorded, entry)
	}

	return recorded, nil
}

// compensateEntries: Yarım kalan siparişin yazılmış satırlarını ters
// işaretli adjustment ile geri alır. Telafi kaydı da defterden geçer,
// stok asla defterden bağımsız oynamaz.
func compensateEntries(rec *ledger.Recorder, order *models.Order, recorded []*models.InventoryTransaction, performedBy uint, performedByName string) {
	for _, done := range recorded {
		if _, err := rec.Record(ledger.RecordInput{
			FranchiseID:     order.FranchiseID,
			ProductID:       done.ProductID,
			Type:            models.TransactionAdjustment,
			Quantity:        -done.Quantity,
			ReferenceNumber: order.OrderNumber,
			Note:            fmt.Sprintf("Sipariş %s telafisi: hareket #%d", order.OrderNumber, done.ID),
			PerformedBy:     performedBy,
			PerformedByName: performedByName,
		}); err != nil {
			log.Printf("[ERROR] Sipariş %s telafi kaydı yazılamadı (hareket #%d): %v", order.OrderNumber, done.ID, err)
		}
	}
}

// releaseLines: İptal edilen siparişin satırlarını return hareketiyle
// stoğa geri yükler.
func releaseLines(rec *ledger.Recorder, order *models.Order, performedBy uint, performedByName string) error {
	for _, item := range order.Items {
		if _, err := rec.Record(ledger.RecordInput{
			FranchiseID:     order.FranchiseID,
			ProductID:       item.ProductID,
			Type:            models.TransactionReturn,
			Quantity:        item.Quantity,
			ReferenceNumber: order.OrderNumber,
			Note:            fmt.Sprintf("Sipariş %s iptal edildi", order.OrderNumber),
			PerformedBy:     performedBy,
			PerformedByName: performedByName,
		}); err != nil {
			return fmt.Errorf("ürün %d: %w", item.ProductID, err)
		}
	}
	return nil
}

// cancelAndRelease: İptali iki adımda işler. Önce durum koşullu yazmayla
// cancelled'a çevrilir, geri yükleme yalnız bu yazmayı kazanan istekte
// çalışır. Aynı siparişe ikinci bir iptal koşullu yazmada elenir; stok
// iki kez geri yüklenmez.
func cancelAndRelease(rec *ledger.Recorder, order *models.Order, performedBy uint, performedByName string, flip FlipFunc) error {
	if err := Transition(order.Status, models.OrderStatusCancelled, flip); err != nil {
		return err
	}
	return releaseLines(rec, order, performedBy, performedByName)
}

// writeFulfillmentError: Sipariş akışından dönen defter hatalarını HTTP
// yanıtına çevirir. Sarmalanmış hatalar errors.Is/As ile çözülür.
func writeFulfillmentError(c *fiber.Ctx, err error) error {
	var insufficient *ledger.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     insufficient.Error(),
			"productId": insufficient.ProductID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	}

	switch {
	case errors.Is(err, ledger.ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrConcurrencyConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Sipariş stok hareketi işlenemedi")
}
