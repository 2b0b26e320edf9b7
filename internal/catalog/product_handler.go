package catalog

import (
	"fmt"
	"strings"

	"pazaryeri-backend/internal/audit"
	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID           uint            `json:"id"`
	FranchiseID  uint            `json:"franchiseId"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    string          `json:"createdAt"`
}

func newProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		FranchiseID:  p.FranchiseID,
		SKU:          p.SKU,
		Name:         p.Name,
		Unit:         p.Unit,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type CreateProductRequest struct {
	FranchiseID  *uint           `json:"franchiseId"` // super_admin için
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	MinStock     int             `json:"minStock"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	InitialStock int             `json:"initialStock"`
}

type UpdateProductRequest struct {
	FranchiseID  *uint            `json:"franchiseId"` // super_admin için
	SKU          *string          `json:"sku"`
	Name         *string          `json:"name"`
	Unit         *string          `json:"unit"`
	MinStock     *int             `json:"minStock"`
	CostPrice    *decimal.Decimal `json:"costPrice"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	IsActive     *bool            `json:"isActive"`
}

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

// POST /api/products
// Ürün stok=0 ile açılır; açılış stoğu varsa initial_stock hareketi olarak
// Recorder üzerinden yazılır, böylece ilk miktar bile defterde görünür.
func CreateProductHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.SKU = strings.TrimSpace(body.SKU)
		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)

		if body.SKU == "" || body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku, name ve unit zorunlu")
		}
		if body.MinStock < 0 || body.InitialStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "minStock ve initialStock negatif olamaz")
		}
		if body.CostPrice.IsNegative() || body.SellingPrice.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyatlar negatif olamaz")
		}

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		var franchise models.Franchise
		if err := database.DB.First(&franchise, "id = ?", franchiseID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Bayi bulunamadı (ID: %d)", franchiseID))
		}

		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		product := models.Product{
			FranchiseID:  franchiseID,
			SKU:          body.SKU,
			Name:         body.Name,
			Unit:         body.Unit,
			Stock:        0,
			MinStock:     body.MinStock,
			CostPrice:    body.CostPrice,
			SellingPrice: body.SellingPrice,
			IsActive:     true,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Bu SKU bu bayide zaten kullanılıyor")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		if body.InitialStock > 0 {
			cost := body.CostPrice
			if _, err := rec.Record(ledger.RecordInput{
				FranchiseID:     franchiseID,
				ProductID:       product.ID,
				Type:            models.TransactionInitialStock,
				Quantity:        body.InitialStock,
				CostPerUnit:     &cost,
				Note:            "Açılış stoğu",
				PerformedBy:     actor.UserID,
				PerformedByName: actor.Name,
			}); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturuldu ancak açılış stoğu kaydedilemedi")
			}
			product.Stock = body.InitialStock
		}

		_ = audit.WriteLog(audit.LogOptions{
			FranchiseID: &franchiseID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ürün oluşturuldu: %s (%s)", product.Name, product.SKU),
			After:       product,
		})

		return c.Status(fiber.StatusCreated).JSON(newProductResponse(product))
	}
}

// GET /api/products?franchiseId=&q=&includeInactive=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Product{}).
			Where("franchise_id = ?", franchiseID)

		if c.Query("includeInactive") != "true" {
			dbq = dbq.Where("is_active = ?", true)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name ILIKE ? OR sku ILIKE ?", like, like)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, newProductResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
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

		return c.JSON(newProductResponse(product))
	}
}

// PUT /api/products/:id
// Stok alanı buradan güncellenmez; stok yalnızca Recorder üzerinden değişir.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.
			Where("id = ? AND franchise_id = ?", productID, franchiseID).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı veya bu bayiye ait değil")
		}

		updates := map[string]interface{}{}

		if body.SKU != nil {
			sku := strings.TrimSpace(*body.SKU)
			if sku == "" {
				return fiber.NewError(fiber.StatusBadRequest, "sku boş olamaz")
			}
			updates["sku"] = sku
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			updates["name"] = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "unit boş olamaz")
			}
			updates["unit"] = unit
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "minStock negatif olamaz")
			}
			updates["min_stock"] = *body.MinStock
		}
		if body.CostPrice != nil {
			if body.CostPrice.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "costPrice negatif olamaz")
			}
			updates["cost_price"] = *body.CostPrice
		}
		if body.SellingPrice != nil {
			if body.SellingPrice.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "sellingPrice negatif olamaz")
			}
			updates["selling_price"] = *body.SellingPrice
		}
		if body.IsActive != nil {
			updates["is_active"] = *body.IsActive
		}

		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		before := product

		if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Bu SKU bu bayide zaten kullanılıyor")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		if actor, ok := auth.ActorFromCtx(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				FranchiseID: &franchiseID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ürün güncellendi: %s (%s)", product.Name, product.SKU),
				Before:      before,
				After:       product,
			})
		}

		return c.JSON(newProductResponse(product))
	}
}

// DELETE /api/products/:id
// Defterde hareketi olan ürün silinmez, pasife alınır. Geçmiş her zaman
// ürün kaydına ulaşabilmeli.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
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

		var entryCount int64
		if err := database.DB.Model(&models.InventoryTransaction{}).
			Where("product_id = ? AND franchise_id = ?", productID, franchiseID).
			Count(&entryCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareket geçmişi kontrol edilemedi")
		}
		if entryCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Hareket geçmişi olan ürün silinemez, pasife alın")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		if actor, ok := auth.ActorFromCtx(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				FranchiseID: &franchiseID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi: %s (%s)", product.Name, product.SKU),
				Before:      product,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
