package auth

import (
	"github.com/gofiber/fiber/v2"

	"pazaryeri-backend/internal/models"
)

// Actor: İsteği yapan kullanıcının kimliği. Middleware token'ı çözdükten
// sonra locals'a koyar, handler'lar bayi yetki kontrolünü bunun üzerinden yapar.
type Actor struct {
	UserID      uint
	Name        string
	Role        models.UserRole
	FranchiseID *uint
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin
}

// CanAccessFranchise: Super admin her bayiye erişir, bayi admini yalnızca kendi bayisine.
func (a Actor) CanAccessFranchise(franchiseID uint) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return a.FranchiseID != nil && *a.FranchiseID == franchiseID
}

// ActorFromCtx: Locals'daki aktörü döndürür. Middleware'den geçmemiş
// bir route'ta çağrılırsa ok=false döner.
func ActorFromCtx(c *fiber.Ctx) (Actor, bool) {
	actor, ok := c.Locals(CtxActorKey).(Actor)
	return actor, ok
}
