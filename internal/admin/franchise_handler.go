package admin

import (
	"fmt"
	"strings"

	"pazaryeri-backend/internal/audit"
	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type FranchiseResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

func newFranchiseResponse(f models.Franchise) FranchiseResponse {
	return FranchiseResponse{
		ID:        f.ID,
		Name:      f.Name,
		Address:   f.Address,
		Phone:     f.Phone,
		IsActive:  f.IsActive,
		CreatedAt: f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type CreateFranchiseRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"` // Opsiyonel
}

type UpdateFranchiseRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

type CreateFranchiseAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type FranchiseAdminResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FranchiseID *uint  `json:"franchiseId"`
	CreatedAt   string `json:"createdAt"`
}

// ----------------------------------------
// BAYİ CRUD
// ----------------------------------------

// POST /api/admin/franchises (sadece super_admin)
func CreateFranchiseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFranchiseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Bayi adı boş olamaz")
		}

		franchise := models.Franchise{
			Name:     body.Name,
			Address:  body.Address,
			IsActive: true,
		}
		if body.Phone != nil {
			franchise.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&franchise).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir bayi zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Bayi oluşturulamadı")
		}

		if actor, ok := auth.ActorFromCtx(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				FranchiseID: &franchise.ID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  "franchise",
				EntityID:    franchise.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Bayi oluşturuldu: %s", franchise.Name),
				After:       franchise,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(newFranchiseResponse(franchise))
	}
}

// GET /api/admin/franchises
func ListFranchisesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var franchises []models.Franchise
		if err := database.DB.Order("name asc").Find(&franchises).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bayiler listelenemedi")
		}

		res := make([]FranchiseResponse, 0, len(franchises))
		for _, f := range franchises {
			res = append(res, newFranchiseResponse(f))
		}

		return c.JSON(res)
	}
}

// GET /api/admin/franchises/:id
func GetFranchiseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var franchise models.Franchise
		if err := database.DB.First(&franchise, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}

		return c.JSON(newFranchiseResponse(franchise))
	}
}

// PUT /api/admin/franchises/:id
func UpdateFranchiseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var franchise models.Franchise
		if err := database.DB.First(&franchise, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}

		var body UpdateFranchiseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Bayi adı boş olamaz")
			}
			franchise.Name = name
		}
		if body.Address != nil {
			franchise.Address = *body.Address
		}
		if body.Phone != nil {
			franchise.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.IsActive != nil {
			franchise.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&franchise).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir bayi zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Bayi güncellenemedi")
		}

		return c.JSON(newFranchiseResponse(franchise))
	}
}

// DELETE /api/admin/franchises/:id
// Ürünü veya kullanıcısı olan bayi silinmez, pasife alınır.
func DeleteFranchiseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var franchise models.Franchise
		if err := database.DB.First(&franchise, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}

		var productCount, userCount int64
		database.DB.Model(&models.Product{}).Where("franchise_id = ?", franchise.ID).Count(&productCount)
		database.DB.Model(&models.User{}).Where("franchise_id = ?", franchise.ID).Count(&userCount)
		if productCount > 0 || userCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ürünü veya kullanıcısı olan bayi silinemez, pasife alın")
		}

		if err := database.DB.Delete(&franchise).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bayi silinemedi")
		}

		if actor, ok := auth.ActorFromCtx(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				FranchiseID: &franchise.ID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  "franchise",
				EntityID:    franchise.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Bayi silindi: %s", franchise.Name),
				Before:      franchise,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// BAYİ ADMİNİ OLUŞTURMA
// ----------------------------------------

// POST /api/admin/franchises/:id/admins
func CreateFranchiseAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID := c.Params("id")

		// Bayi kontrolü
		var franchise models.Franchise
		if err := database.DB.First(&franchise, "id = ?", franchiseID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}

		var body CreateFranchiseAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		// Email kontrolü
		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kayıtlı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleFranchiseAdmin,
			FranchiseID:  &franchise.ID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bayi admini oluşturulamadı")
		}

		// NOT: Şifre sadece oluşturma sırasında bir kez döndürülür (güvenlik)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"role":        user.Role,
			"franchiseId": user.FranchiseID,
			"password":    body.Password, // Sadece oluşturma sırasında (bir kez)
		})
	}
}

// GET /api/admin/franchises/:id/admins
func ListFranchiseAdminsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID := c.Params("id")

		var users []models.User
		if err := database.DB.
			Where("franchise_id = ? AND role = ?", franchiseID, models.RoleFranchiseAdmin).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adminler listelenemedi")
		}

		res := make([]FranchiseAdminResponse, 0, len(users))
		for _, u := range users {
			res = append(res, FranchiseAdminResponse{
				ID:          u.ID,
				Name:        u.Name,
				Email:       u.Email,
				Role:        string(u.Role),
				FranchiseID: u.FranchiseID,
				CreatedAt:   u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
