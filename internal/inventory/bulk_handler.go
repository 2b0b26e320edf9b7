package inventory

import (
	"fmt"

	"pazaryeri-backend/internal/audit"
	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxBulkItems = 100

type BulkAdjustmentItem struct {
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"notes"`
}

type BulkAdjustmentRequest struct {
	FranchiseID *uint                `json:"franchiseId"` // super_admin için
	Reason      string               `json:"reason"`
	Adjustments []BulkAdjustmentItem `json:"adjustments"`
}

type BulkFailureResponse struct {
	ProductID uint   `json:"productId"`
	Error     string `json:"error"`
}

// POST /api/inventory/bulk-adjustment
// Kalemler bağımsız işlenir: bir kalemin hatası diğerlerini geri almaz,
// sonuç kalem bazında döner.
func BulkAdjustmentHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BulkAdjustmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if len(body.Adjustments) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "adjustments boş olamaz")
		}
		if len(body.Adjustments) > maxBulkItems {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Tek istekte en fazla %d kalem gönderilebilir", maxBulkItems))
		}
		for _, item := range body.Adjustments {
			if item.ProductID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Her kalem için productId zorunlu")
			}
		}

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		items := make([]ledger.BulkItem, 0, len(body.Adjustments))
		for _, a := range body.Adjustments {
			items = append(items, ledger.BulkItem{
				ProductID: a.ProductID,
				Quantity:  a.Quantity,
				Note:      a.Note,
			})
		}

		result := rec.ApplyBulk(ledger.BulkInput{
			FranchiseID:     franchiseID,
			Reason:          body.Reason,
			Items:           items,
			PerformedBy:     actor.UserID,
			PerformedByName: actor.Name,
		})

		successes := make([]TransactionResponse, 0, len(result.Successes))
		for _, e := range result.Successes {
			successes = append(successes, newTransactionResponse(*e))
		}
		failures := make([]BulkFailureResponse, 0, len(result.Failures))
		for _, f := range result.Failures {
			failures = append(failures, BulkFailureResponse{ProductID: f.ProductID, Error: f.Error})
		}

		_ = audit.WriteLog(audit.LogOptions{
			FranchiseID: &franchiseID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "inventory_bulk_adjustment",
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Toplu düzeltme: %d başarılı, %d hatalı (%s)", len(successes), len(failures), body.Reason),
			After:       result.Failures,
		})

		return c.JSON(fiber.Map{
			"successCount": len(successes),
			"failureCount": len(failures),
			"successes":    successes,
			"failures":     failures,
		})
	}
}
