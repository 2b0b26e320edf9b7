package audit

import (
	"fmt"

	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/models"
	"pazaryeri-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"createdAt"`
	FranchiseID *uint              `json:"franchiseId"`
	UserID      uint               `json:"userId"`
	UserName    string             `json:"userName"`
	EntityType  string             `json:"entityType"`
	EntityID    uint               `json:"entityId"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /api/audit-logs?entityType=product&entityId=1&franchiseId=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		// Bayi admini yalnızca kendi bayisinin loglarını görür; açıkça
		// istenen bayi aktörün erişim denetiminden geçer
		var franchiseID *uint
		if fidStr := c.Query("franchiseId"); fidStr != "" {
			var fid uint
			if _, err := fmt.Sscan(fidStr, &fid); err == nil && fid > 0 {
				if !actor.CanAccessFranchise(fid) {
					return fiber.NewError(fiber.StatusForbidden, "Bu bayiye erişim yetkiniz yok")
				}
				franchiseID = &fid
			}
		}
		if franchiseID == nil && !actor.IsSuperAdmin() {
			if actor.FranchiseID == nil {
				return fiber.NewError(fiber.StatusForbidden, "Bayi bilgisi bulunamadı")
			}
			franchiseID = actor.FranchiseID
		}

		dbq := database.DB.Model(&models.AuditLog{})

		if franchiseID != nil {
			dbq = dbq.Where("franchise_id = ?", *franchiseID)
		}
		if userIDStr := c.Query("userId"); userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}
		if entityType := c.Query("entityType"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entityId"); entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		page, limit := pagination.Parse(c)

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar sayılamadı")
		}

		var logs []models.AuditLog
		if err := dbq.
			Order("created_at DESC").
			Offset(pagination.Offset(page, limit)).
			Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				FranchiseID: l.FranchiseID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}

		return c.JSON(fiber.Map{
			"logs":       resp,
			"pagination": pagination.NewMeta(total, page, limit),
		})
	}
}
