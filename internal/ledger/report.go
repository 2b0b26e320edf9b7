package ledger

import (
	"sort"

	"pazaryeri-backend/internal/models"

	"github.com/shopspring/decimal"
)

// FilterLowStock: stock <= minStock olan ürünleri stok artan sırada döndürür.
// Eşik dahildir: stoğu tam minStock'ta olan ürün de listeye girer.
func FilterLowStock(products []models.Product) []models.Product {
	var low []models.Product
	for _, p := range products {
		if p.Stock <= p.MinStock {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Stock < low[j].Stock
	})
	return low
}

type ValuationRow struct {
	ProductID       uint            `json:"productId"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Stock           int             `json:"stock"`
	CostPrice       decimal.Decimal `json:"costPrice"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	ValueAtCost     decimal.Decimal `json:"valueAtCost"`
	ValueAtSelling  decimal.Decimal `json:"valueAtSelling"`
	PotentialProfit decimal.Decimal `json:"potentialProfit"`
}

type ValuationReport struct {
	Rows                 []ValuationRow  `json:"products"`
	TotalAtCost          decimal.Decimal `json:"totalValueAtCost"`
	TotalAtSelling       decimal.Decimal `json:"totalValueAtSelling"`
	TotalPotentialProfit decimal.Decimal `json:"totalPotentialProfit"`
}

// BuildValuation: Ürün başına stok değerini maliyet ve satış fiyatından
// hesaplar, bayi toplamlarını çıkarır. Para hesabı decimal ile yapılır,
// float yuvarlama hatası deftere girmez.
func BuildValuation(products []models.Product) ValuationReport {
	report := ValuationReport{
		TotalAtCost:          decimal.Zero,
		TotalAtSelling:       decimal.Zero,
		TotalPotentialProfit: decimal.Zero,
	}

	for _, p := range products {
		stock := decimal.NewFromInt(int64(p.Stock))
		row := ValuationRow{
			ProductID:       p.ID,
			SKU:             p.SKU,
			Name:            p.Name,
			Stock:           p.Stock,
			CostPrice:       p.CostPrice,
			SellingPrice:    p.SellingPrice,
			ValueAtCost:     stock.Mul(p.CostPrice),
			ValueAtSelling:  stock.Mul(p.SellingPrice),
			PotentialProfit: stock.Mul(p.SellingPrice.Sub(p.CostPrice)),
		}
		report.Rows = append(report.Rows, row)
		report.TotalAtCost = report.TotalAtCost.Add(row.ValueAtCost)
		report.TotalAtSelling = report.TotalAtSelling.Add(row.ValueAtSelling)
		report.TotalPotentialProfit = report.TotalPotentialProfit.Add(row.PotentialProfit)
	}

	return report
}

// ReplayEntries: Oluşturulma sırasındaki hareketleri baştan oynatır.
// İlk kaydın PreviousStock'undan başlayıp deltaları toplar; her kaydın
// PreviousStock/NewStock zinciri kopuksuz ise consistent true döner.
// Dönen finalStock, zincirin sonundaki stok değeridir.
func ReplayEntries(entries []models.InventoryTransaction) (finalStock int, consistent bool) {
	if len(entries) == 0 {
		return 0, true
	}

	running := entries[0].PreviousStock
	consistent = true
	for _, e := range entries {
		if e.PreviousStock != running || e.NewStock != e.PreviousStock+e.Quantity {
			consistent = false
		}
		running = e.NewStock
	}
	return running, consistent
}
