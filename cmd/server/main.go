package main

import (
	"log"
	"strings"

	"pazaryeri-backend/internal/admin"
	"pazaryeri-backend/internal/audit"
	"pazaryeri-backend/internal/auth"
	"pazaryeri-backend/internal/catalog"
	"pazaryeri-backend/internal/config"
	"pazaryeri-backend/internal/database"
	"pazaryeri-backend/internal/inventory"
	"pazaryeri-backend/internal/ledger"
	"pazaryeri-backend/internal/models"
	"pazaryeri-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	// Stok defteri: tüm stok değişimleri bu Recorder üzerinden geçer
	recorder := ledger.NewRecorder(ledger.NewGormStore(database.DB))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Bayi yönetimi
	adminRoutes.Post("/franchises", admin.CreateFranchiseHandler())
	adminRoutes.Get("/franchises", admin.ListFranchisesHandler())
	adminRoutes.Get("/franchises/:id", admin.GetFranchiseHandler())
	adminRoutes.Put("/franchises/:id", admin.UpdateFranchiseHandler())
	adminRoutes.Delete("/franchises/:id", admin.DeleteFranchiseHandler())
	adminRoutes.Post("/franchises/:id/admins", admin.CreateFranchiseAdminHandler())
	adminRoutes.Get("/franchises/:id/admins", admin.ListFranchiseAdminsHandler())

	// Ürün kataloğu (bayi admini kendi bayisinde, super admin her bayide)
	protected.Post("/products", catalog.CreateProductHandler(recorder))
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Put("/products/:id", catalog.UpdateProductHandler())
	protected.Delete("/products/:id", catalog.DeleteProductHandler())

	// Stok defteri
	protected.Post("/inventory", inventory.CreateTransactionHandler(recorder))
	protected.Get("/inventory", inventory.ListTransactionsHandler())
	protected.Post("/inventory/bulk-adjustment", inventory.BulkAdjustmentHandler(recorder))
	protected.Get("/inventory/stats/overview", inventory.StatsOverviewHandler())
	protected.Get("/inventory/alerts/low-stock", inventory.LowStockHandler())
	protected.Get("/inventory/reports/stock-valuation", inventory.StockValuationHandler())
	protected.Get("/inventory/product/:id/history", inventory.ProductHistoryHandler())
	protected.Get("/inventory/:id", inventory.GetTransactionHandler())
	protected.Post("/inventory/:id/reverse", inventory.ReverseTransactionHandler(recorder))

	// Siparişler
	protected.Post("/orders", orders.PlaceOrderHandler(recorder))
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Put("/orders/:id/status", orders.UpdateOrderStatusHandler(recorder))
	protected.Post("/orders/:id/cancel", orders.CancelOrderHandler(recorder))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
