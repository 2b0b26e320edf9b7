package inventory

import (
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TypeStatRow struct {
	Type          models.TransactionType `gorm:"column:type" json:"transactionType"`
	Count         int64                  `gorm:"column:count" json:"count"`
	TotalQuantity int64                  `gorm:"column:total_quantity" json:"totalQuantity"`
	TotalCost     decimal.Decimal        `gorm:"column:total_cost" json:"totalCost"`
}

// GET /api/inventory/stats/overview?franchiseId=&startDate=&endDate=
// İşlem tipi bazında sayı/miktar/maliyet toplamları ve güncel stok özeti.
func StatsOverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		start, end, err := parseDateRangeQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.InventoryTransaction{}).
			Where("franchise_id = ?", franchiseID)
		if start != nil {
			dbq = dbq.Where("created_at >= ?", *start)
		}
		if end != nil {
			dbq = dbq.Where("created_at < ?", *end)
		}

		var byType []TypeStatRow
		if err := dbq.
			Select("type, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS total_quantity, COALESCE(SUM(total_cost), 0) AS total_cost").
			Group("type").
			Order("type").
			Scan(&byType).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistikler hesaplanamadı")
		}

		var entryCount int64
		for _, row := range byType {
			entryCount += row.Count
		}

		// Güncel stok özeti (tarih filtresinden bağımsız)
		var productCount, outOfStockCount, lowStockCount int64
		var totalUnits int64
		if err := database.DB.Model(&models.Product{}).
			Where("franchise_id = ? AND is_active = ?", franchiseID, true).
			Count(&productCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün sayısı hesaplanamadı")
		}
		if err := database.DB.Model(&models.Product{}).
			Where("franchise_id = ? AND is_active = ?", franchiseID, true).
			Select("COALESCE(SUM(stock), 0)").
			Scan(&totalUnits).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Toplam stok hesaplanamadı")
		}
		if err := database.DB.Model(&models.Product{}).
			Where("franchise_id = ? AND is_active = ? AND stock = 0", franchiseID, true).
			Count(&outOfStockCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok özeti hesaplanamadı")
		}
		if err := database.DB.Model(&models.Product{}).
			Where("franchise_id = ? AND is_active = ? AND stock <= min_stock", franchiseID, true).
			Count(&lowStockCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok özeti hesaplanamadı")
		}

		return c.JSON(fiber.Map{
			"franchiseId": franchiseID,
			"byType":      byType,
			"totals": fiber.Map{
				"entryCount":      entryCount,
				"productCount":    productCount,
				"totalUnits":      totalUnits,
				"lowStockCount":   lowStockCount,
				"outOfStockCount": outOfStockCount,
			},
		})
	}
}

type LowStockRow struct {
	ProductID uint   `json:"productId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"minStock"`
}

// GET /api/inventory/alerts/low-stock?franchiseId=
// Eşik dahildir: stock == minStock olan ürün listeye girer.
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("franchise_id = ? AND is_active = ?", franchiseID, true).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		low := ledger.FilterLowStock(products)

		resp := make([]LowStockRow, 0, len(low))
		for _, p := range low {
			resp = append(resp, LowStockRow{
				ProductID: p.ID,
				SKU:       p.SKU,
				Name:      p.Name,
				Unit:      p.Unit,
				Stock:     p.Stock,
				MinStock:  p.MinStock,
			})
		}

		return c.JSON(fiber.Map{
			"franchiseId": franchiseID,
			"count":       len(resp),
			"products":    resp,
		})
	}
}

// GET /api/inventory/reports/stock-valuation?franchiseId=
func StockValuationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("franchise_id = ? AND is_active = ?", franchiseID, true).
			Order("name ASC").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		report := ledger.BuildValuation(products)

		return c.JSON(fiber.Map{
			"franchiseId":          franchiseID,
			"products":             report.Rows,
			"totalValueAtCost":     report.TotalAtCost,
			"totalValueAtSelling":  report.TotalAtSelling,
			"totalPotentialProfit": report.TotalPotentialProfit,
		})
	}
}
