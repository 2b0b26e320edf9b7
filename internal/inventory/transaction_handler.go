package inventory

import (
	"fmt"
	"time"

	"pazaryeri-backend/internal/audit"
	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"
	"pazaryeri-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	FranchiseID     *uint                  `json:"franchiseId"` // super_admin için
	ProductID       uint                   `json:"productId"`
	Type            models.TransactionType `json:"transactionType"`
	Quantity        int                    `json:"quantity"`
	CostPerUnit     *decimal.Decimal       `json:"costPerUnit"`
	ReferenceNumber string                 `json:"referenceNumber"`
	BatchNumber     string                 `json:"batchNumber"`
	Supplier        string                 `json:"supplier"`
	ExpiryDate      string                 `json:"expiryDate"` // "2026-01-31"
	Note            string                 `json:"notes"`
}

type TransactionResponse struct {
	ID              uint                   `json:"id"`
	FranchiseID     uint                   `json:"franchiseId"`
	ProductID       uint                   `json:"productId"`
	ProductName     string                 `json:"productName,omitempty"`
	ProductSKU      string                 `json:"productSku,omitempty"`
	Type            models.TransactionType `json:"transactionType"`
	Quantity        int                    `json:"quantity"`
	PreviousStock   int                    `json:"previousStock"`
	NewStock        int                    `json:"newStock"`
	CostPerUnit     *decimal.Decimal       `json:"costPerUnit,omitempty"`
	TotalCost       *decimal.Decimal       `json:"totalCost,omitempty"`
	ReferenceNumber string                 `json:"referenceNumber,omitempty"`
	BatchNumber     string                 `json:"batchNumber,omitempty"`
	Supplier        string                 `json:"supplier,omitempty"`
	ExpiryDate      *string                `json:"expiryDate,omitempty"`
	Note            string                 `json:"notes,omitempty"`
	PerformedBy     uint                   `json:"performedBy"`
	PerformedByName string                 `json:"performedByName,omitempty"`
	CreatedAt       string                 `json:"createdAt"`
}

func newTransactionResponse(e models.InventoryTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:              e.ID,
		FranchiseID:     e.FranchiseID,
		ProductID:       e.ProductID,
		ProductName:     e.Product.Name,
		ProductSKU:      e.Product.SKU,
		Type:            e.Type,
		Quantity:        e.Quantity,
		PreviousStock:   e.PreviousStock,
		NewStock:        e.NewStock,
		CostPerUnit:     e.CostPerUnit,
		TotalCost:       e.TotalCost,
		ReferenceNumber: e.ReferenceNumber,
		BatchNumber:     e.BatchNumber,
		Supplier:        e.Supplier,
		Note:            e.Note,
		PerformedBy:     e.PerformedBy,
		PerformedByName: e.PerformedByName,
		CreatedAt:       e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.ExpiryDate != nil {
		formatted := e.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &formatted
	}
	return resp
}

// POST /api/inventory
func CreateTransactionHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "productId zorunlu")
		}
		if body.CostPerUnit != nil && body.CostPerUnit.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "costPerUnit negatif olamaz")
		}

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		var expiryDate *time.Time
		if body.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiryDate formatı 'YYYY-MM-DD' olmalı")
			}
			expiryDate = &d
		}

		entry, err := rec.Record(ledger.RecordInput{
			FranchiseID:     franchiseID,
			ProductID:       body.ProductID,
			Type:            body.Type,
			Quantity:        body.Quantity,
			CostPerUnit:     body.CostPerUnit,
			ReferenceNumber: body.ReferenceNumber,
			BatchNumber:     body.BatchNumber,
			Supplier:        body.Supplier,
			ExpiryDate:      expiryDate,
			Note:            body.Note,
			PerformedBy:     actor.UserID,
			PerformedByName: actor.Name,
		})
		if err != nil {
			return writeLedgerError(c, err)
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", entry.ProductID).Error; err == nil {
			entry.Product = product
		}

		_ = audit.WriteLog(audit.LogOptions{
			FranchiseID: &franchiseID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "inventory_transaction",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok hareketi: %s %+d %s (stok %d -> %d)", entry.Type, entry.Quantity, product.Name, entry.PreviousStock, entry.NewStock),
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(newTransactionResponse(*entry))
	}
}

// GET /api/inventory?productId=&type=&startDate=&endDate=&page=&limit=
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.InventoryTransaction{}).
			Where("franchise_id = ?", franchiseID)

		if pidStr := c.Query("productId"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "productId geçersiz")
			}
			dbq = dbq.Where("product_id = ?", pid)
		}

		if typeStr := c.Query("type"); typeStr != "" {
			t := models.TransactionType(typeStr)
			if !t.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "type geçersiz")
			}
			dbq = dbq.Where("type = ?", t)
		}

		start, end, err := parseDateRangeQuery(c)
		if err != nil {
			return err
		}
		if start != nil {
			dbq = dbq.Where("created_at >= ?", *start)
		}
		if end != nil {
			dbq = dbq.Where("created_at < ?", *end)
		}

		page, limit := pagination.Parse(c)

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler sayılamadı")
		}

		var entries []models.InventoryTransaction
		if err := dbq.
			Preload("Product").
			Order("created_at DESC, id DESC").
			Offset(pagination.Offset(page, limit)).
			Limit(limit).
			Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}

		resp := make([]TransactionResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, newTransactionResponse(e))
		}

		return c.JSON(fiber.Map{
			"transactions": resp,
			"pagination":   pagination.NewMeta(total, page, limit),
		})
	}
}

// GET /api/inventory/:id
func GetTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entryID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var entry models.InventoryTransaction
		if err := database.DB.
			Preload("Product").
			Where("id = ? AND franchise_id = ?", entryID, franchiseID).
			First(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok hareketi bulunamadı")
		}

		return c.JSON(newTransactionResponse(entry))
	}
}

// POST /api/inventory/:id/reverse
// Defter kaydı değiştirilmez; hatalı hareket ters işaretli bir adjustment
// ile telafi edilir.
func ReverseTransactionHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entryID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var body struct {
			FranchiseID *uint `json:"franchiseId"`
		}
		// Gövde boş olabilir, bayi admini için gerekmez
		_ = c.BodyParser(&body)

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		entry, err := rec.Reverse(franchiseID, entryID, actor.UserID, actor.Name)
		if err != nil {
			return writeLedgerError(c, err)
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", entry.ProductID).Error; err == nil {
			entry.Product = product
		}

		_ = audit.WriteLog(audit.LogOptions{
			FranchiseID: &franchiseID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "inventory_transaction",
			EntityID:    entry.ID,
			Action:      models.AuditActionReverse,
			Description: fmt.Sprintf("Ters kayıt: hareket #%d, %s %+d (stok %d -> %d)", entryID, product.Name, entry.Quantity, entry.PreviousStock, entry.NewStock),
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(newTransactionResponse(*entry))
	}
}
