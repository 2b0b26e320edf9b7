package inventory

import (
	"errors"
	"fmt"
	"time"

	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

// resolveFranchiseIDFromBodyOrRole: Bayi admini kendi bayisinde çalışır,
// super admin hedef bayiyi istek gövdesinde belirtir. Açıkça istenen bayi
// aktörün erişim denetiminden geçer.
func resolveFranchiseIDFromBodyOrRole(c *fiber.Ctx, bodyFranchiseID *uint) (uint, error) {
	actor, ok := auth.ActorFromCtx(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
	}

	if bodyFranchiseID != nil && *bodyFranchiseID != 0 {
		if !actor.CanAccessFranchise(*bodyFranchiseID) {
			return 0, fiber.NewError(fiber.StatusForbidden, "Bu bayiye erişim yetkiniz yok")
		}
		return *bodyFranchiseID, nil
	}

	if actor.IsSuperAdmin() {
		return 0, fiber.NewError(fiber.StatusBadRequest, "franchiseId zorunlu")
	}
	if actor.FranchiseID == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "Bayi bilgisi bulunamadı")
	}
	return *actor.FranchiseID, nil
}

func resolveFranchiseIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	actor, ok := auth.ActorFromCtx(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
	}

	if fidStr := c.Query("franchiseId"); fidStr != "" {
		var fid uint
		if _, err := fmt.Sscan(fidStr, &fid); err != nil || fid == 0 {
			return 0, fiber.NewError(fiber.StatusBadRequest, "franchiseId geçersiz")
		}
		if !actor.CanAccessFranchise(fid) {
			return 0, fiber.NewError(fiber.StatusForbidden, "Bu bayiye erişim yetkiniz yok")
		}
		return fid, nil
	}

	if actor.IsSuperAdmin() {
		return 0, fiber.NewError(fiber.StatusBadRequest, "franchiseId zorunlu")
	}
	if actor.FranchiseID == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "Bayi bilgisi bulunamadı")
	}
	return *actor.FranchiseID, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params(name), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s geçersiz", name))
	}
	return id, nil
}

// parseDateRangeQuery: startDate/endDate parametrelerini okur. endDate
// gün sonuna kadar dahildir; created_at karşılaştırması için ertesi günün
// başlangıcı döndürülür.
func parseDateRangeQuery(c *fiber.Ctx) (start, end *time.Time, err error) {
	if s := c.Query("startDate"); s != "" {
		d, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "startDate formatı 'YYYY-MM-DD' olmalı")
		}
		start = &d
	}
	if s := c.Query("endDate"); s != "" {
		d, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "endDate formatı 'YYYY-MM-DD' olmalı")
		}
		next := d.AddDate(0, 0, 1)
		end = &next
	}
	return start, end, nil
}

// writeLedgerError: Recorder hatalarını HTTP yanıtlarına çevirir.
// Yetersiz stok yanıtı istenen ve mevcut miktarları da taşır.
func writeLedgerError(c *fiber.Ctx, err error) error {
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
	case errors.Is(err, ledger.ErrProductNotFound), errors.Is(err, ledger.ErrEntryNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidTransactionType), errors.Is(err, ledger.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrConcurrencyConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi işlenemedi")
}
