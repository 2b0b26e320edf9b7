package orders

import (
	"errors"
	"fmt"

	"pazaryeri-backend/internal/audit"
	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"
	"pazaryeri-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type PlaceOrderRequest struct {
	FranchiseID  *uint              `json:"franchiseId"` // super_admin için
	CustomerName string             `json:"customerName"`
	Note         string             `json:"notes"`
	Items        []OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	ProductSKU  string          `json:"productSku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	FranchiseID   uint                `json:"franchiseId"`
	OrderNumber   string              `json:"orderNumber"`
	Status        models.OrderStatus  `json:"status"`
	CustomerName  string              `json:"customerName,omitempty"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Note          string              `json:"notes,omitempty"`
	CreatedBy     uint                `json:"createdBy"`
	CreatedByName string              `json:"createdByName,omitempty"`
	CreatedAt     string              `json:"createdAt"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

func newOrderResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		FranchiseID:   o.FranchiseID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		CustomerName:  o.CustomerName,
		TotalAmount:   o.TotalAmount,
		Note:          o.Note,
		CreatedBy:     o.CreatedBy,
		CreatedByName: o.CreatedByName,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			ProductSKU:  item.Product.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return resp
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

// POST /api/orders
// Stok düşümü sipariş oluşturulurken yapılır: her satır Recorder'dan sale
// olarak geçer. Herhangi bir satır düşemezse sipariş hiç oluşmaz ve
// yazılmış satırlar telafi edilir.
func PlaceOrderHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş en az bir satır içermeli")
		}
		seen := make(map[uint]bool, len(body.Items))
		for _, item := range body.Items {
			if item.ProductID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Her satır için productId zorunlu")
			}
			if item.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Satır miktarı pozitif olmalı")
			}
			if seen[item.ProductID] {
				return fiber.NewError(fiber.StatusBadRequest, "Aynı ürün birden fazla satırda olamaz")
			}
			seen[item.ProductID] = true
		}

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		// Satır bazında stok ön kontrolü; kesin güvence Recorder'daki
		// koşullu yazmadadır
		order := models.Order{
			FranchiseID:   franchiseID,
			OrderNumber:   uuid.NewString(),
			Status:        models.OrderStatusPending,
			CustomerName:  body.CustomerName,
			TotalAmount:   decimal.Zero,
			Note:          body.Note,
			CreatedBy:     actor.UserID,
			CreatedByName: actor.Name,
		}
		for _, item := range body.Items {
			var product models.Product
			if err := database.DB.
				Where("id = ? AND franchise_id = ?", item.ProductID, franchiseID).
				First(&product).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Ürün bulunamadı veya bu bayiye ait değil (ID: %d)", item.ProductID))
			}
			if !product.IsActive {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Pasif ürün sipariş edilemez: %s", product.Name))
			}
			if item.Quantity > product.Stock {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":     fmt.Sprintf("Yetersiz stok: %s", product.Name),
					"productId": product.ID,
					"requested": item.Quantity,
					"available": product.Stock,
				})
			}

			lineTotal := product.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			order.Items = append(order.Items, models.OrderItem{
				ProductID:  product.ID,
				Product:    product,
				Quantity:   item.Quantity,
				UnitPrice:  product.SellingPrice,
				TotalPrice: lineTotal,
			})
			order.TotalAmount = order.TotalAmount.Add(lineTotal)
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		// Stok düşümü defterden geçer; satırlardan biri düşmezse sipariş
		// kaydı geri alınır.
		recorded, err := fulfillLines(rec, &order, actor.UserID, actor.Name)
		if err != nil {
			tx.Rollback()
			return writeFulfillmentError(c, err)
		}

		if err := tx.Commit().Error; err != nil {
			compensateEntries(rec, &order, recorded, actor.UserID, actor.Name)
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş kaydedilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			FranchiseID: &franchiseID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sipariş oluşturuldu: %s (%d satır, toplam %s)", order.OrderNumber, len(order.Items), order.TotalAmount.String()),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(newOrderResponse(order))
	}
}

// GET /api/orders?status=&page=&limit=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Order{}).
			Where("franchise_id = ?", franchiseID)

		if statusStr := c.Query("status"); statusStr != "" {
			status := models.OrderStatus(statusStr)
			if !ValidStatus(status) {
				return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
			}
			dbq = dbq.Where("status = ?", status)
		}

		page, limit := pagination.Parse(c)

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler sayılamadı")
		}

		var list []models.Order
		if err := dbq.
			Preload("Items").
			Order("created_at DESC").
			Offset(pagination.Offset(page, limit)).
			Limit(limit).
			Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(list))
		for _, o := range list {
			resp = append(resp, newOrderResponse(o))
		}

		return c.JSON(fiber.Map{
			"orders":     resp,
			"pagination": pagination.NewMeta(total, page, limit),
		})
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orderID uint
		if _, err := fmt.Sscan(c.Params("id"), &orderID); err != nil || orderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		franchiseID, err := resolveFranchiseIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.
			Preload("Items.Product").
			Where("id = ? AND franchise_id = ?", orderID, franchiseID).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(newOrderResponse(order))
	}
}

type UpdateOrderStatusRequest struct {
	FranchiseID *uint              `json:"franchiseId"` // super_admin için
	Status      models.OrderStatus `json:"status"`
}

// PUT /api/orders/:id/status
func UpdateOrderStatusHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orderID uint
		if _, err := fmt.Sscan(c.Params("id"), &orderID); err != nil || orderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if !ValidStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
		}

		franchiseID, err := resolveFranchiseIDFromBodyOrRole(c, body.FranchiseID)
		if err != nil {
			return err
		}

		actor, ok := auth.ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Oturum bilgisi alınamadı")
		}

		var order models.Order
		if err := database.DB.
			Preload("Items").
			Where("id = ? AND franchise_id = ?", orderID, franchiseID).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if body.Status == models.OrderStatusCancelled {
			return cancelOrder(c, rec, &order, actor)
		}

		previous := order.Status
		if err := Transition(previous, body.Status, statusFlip(&order)); err != nil {
			return writeStatusError(c, err, previous, body.Status)
		}

		_ = audit.WriteLog(audit.LogOptions{
			FranchiseID: &franchiseID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sipariş %s: %s -> %s", order.OrderNumber, previous, body.Status),
		})

		return c.JSON(newOrderResponse(order))
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(rec *ledger.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orderID uint
		if _, err := fmt.Sscan(c.Params("id"), &orderID); err != nil || orderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
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

		var order models.Order
		if err := database.DB.
			Preload("Items").
			Where("id = ? AND franchise_id = ?", orderID, franchiseID).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return cancelOrder(c, rec, &order, actor)
	}
}

// statusFlip: Sipariş durumunun koşullu yazıcısı. Satır ancak durum hâlâ
// from ise güncellenir; hiçbir satır etkilenmediyse durumu bu arada başka
// bir istek değiştirmiştir.
func statusFlip(order *models.Order) FlipFunc {
	return func(from, to models.OrderStatus) (bool, error) {
		res := database.DB.Model(order).
			Where("status = ?", from).
			Update("status", to)
		if res.Error != nil {
			return false, fiber.NewError(fiber.StatusInternalServerError, "Sipariş durumu güncellenemedi")
		}
		return res.RowsAffected > 0, nil
	}
}

// writeStatusError: Durum geçişi hatalarını HTTP yanıtına çevirir. Geçiş
// tablosuna takılan istek 400, koşullu yazmayı kaybeden istek 409 alır.
func writeStatusError(c *fiber.Ctx, err error, from, to models.OrderStatus) error {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), from, to))
	case errors.Is(err, ErrStatusConflict):
		return fiber.NewError(fiber.StatusConflict, "Sipariş durumu bu sırada değişti, tekrar deneyin")
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	return writeFulfillmentError(c, err)
}

// cancelOrder: Durumu önce koşullu yazmayla cancelled'a çevirir; stok geri
// yüklemesi yalnız bu yazmayı kazanan istekte, bir kez çalışır.
func cancelOrder(c *fiber.Ctx, rec *ledger.Recorder, order *models.Order, actor auth.Actor) error {
	previous := order.Status
	if err := cancelAndRelease(rec, order, actor.UserID, actor.Name, statusFlip(order)); err != nil {
		return writeStatusError(c, err, previous, models.OrderStatusCancelled)
	}

	_ = audit.WriteLog(audit.LogOptions{
		FranchiseID: &order.FranchiseID,
		UserID:      actor.UserID,
		UserName:    actor.Name,
		EntityType:  "order",
		EntityID:    order.ID,
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("Sipariş iptal edildi: %s (%s -> cancelled)", order.OrderNumber, previous),
	})

	return c.JSON(newOrderResponse(*order))
}
