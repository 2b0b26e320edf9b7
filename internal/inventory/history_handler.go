package inventory

import (
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/inventory/product/:id/history?franchiseId=&startDate=&endDate=
// Ürünün defterini oluşturulma sırasıyla oynatır. Tarih filtresi yoksa
// zincirin sonu güncel stokla karşılaştırılır ve reconciled alanı döner;
// mutabakat aracının kendisi budur.
func ProductHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.
			Where("id = ? AND franchise_id = ?", productID, franchiseID).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı veya bu bayiye ait değil")
		}

		start, end, err := parseDateRangeQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.InventoryTransaction{}).
			Where("franchise_id = ? AND product_id = ?", franchiseID, productID)
		if start != nil {
			dbq = dbq.Where("created_at >= ?", *start)
		}
		if end != nil {
			dbq = dbq.Where("created_at < ?", *end)
		}

		var entries []models.InventoryTransaction
		if err := dbq.
			Order("created_at ASC, id ASC").
			Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareket geçmişi alınamadı")
		}

		finalStock, consistent := ledger.ReplayEntries(entries)

		resp := make([]TransactionResponse, 0, len(entries))
		for _, e := range entries {
			e.Product = product
			resp = append(resp, newTransactionResponse(e))
		}

		result := fiber.Map{
			"productId":       product.ID,
			"productName":     product.Name,
			"sku":             product.SKU,
			"currentStock":    product.Stock,
			"entryCount":      len(entries),
			"entries":         resp,
			"chainConsistent": consistent,
		}

		// Tam geçmişte zincirin sonu güncel stoğa eşit olmalı
		if start == nil && end == nil {
			reconciled := consistent && finalStock == product.Stock
			if len(entries) == 0 {
				reconciled = product.Stock == 0
			}
			result["reconciled"] = reconciled
			result["replayedStock"] = finalStock
		}

		return c.JSON(result)
	}
}
