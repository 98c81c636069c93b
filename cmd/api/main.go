package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mazenibra89-oss/Omni-POS/internal/handler"
	"github.com/mazenibra89-oss/Omni-POS/internal/middleware"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"
	"github.com/mazenibra89-oss/Omni-POS/internal/seed"
	"github.com/mazenibra89-oss/Omni-POS/internal/service"
	"github.com/mazenibra89-oss/Omni-POS/internal/ws"
	"github.com/mazenibra89-oss/Omni-POS/pkg/config"
	"github.com/mazenibra89-oss/Omni-POS/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load env + config
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup database
	db := database.ConnectDB(cfg.DatabaseDSN)
	db.AutoMigrate(
		&model.Product{},
		&model.Sale{}, &model.SaleItem{},
		&model.PurchaseOrder{}, &model.PurchaseItem{},
		&model.OpnameSession{}, &model.OpnameDetail{},
		&model.StockLog{},
		&model.User{},
	)

	// 3. Seed default users and bootstrap catalog
	if err := seed.DBSeed(db); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// 4. Setup WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	opnameRepo := repository.NewOpnameRepo(db)
	stockLogRepo := repository.NewStockLogRepo(db)
	userRepo := repository.NewUserRepo(db)

	recon := service.NewReconciler(db, stockLogRepo)

	catalogService := service.NewCatalogService(productRepo, recon, wsHub)
	salesService := service.NewSalesService(saleRepo, recon, cfg.TaxRate, wsHub)
	purchasingService := service.NewPurchasingService(purchaseRepo, productRepo, recon, wsHub)
	opnameService := service.NewOpnameService(opnameRepo, productRepo, recon, wsHub)
	dashService := service.NewDashboardService(productRepo, saleRepo, stockLogRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	salesHandler := handler.NewSalesHandler(salesService)
	purchasingHandler := handler.NewPurchasingHandler(purchasingService)
	opnameHandler := handler.NewOpnameHandler(opnameService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.StoreName,
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Customer self-service ordering needs no staff token
	api.Post("/orders/self-service", salesHandler.CreateSelfServiceOrder)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/low-stock", catalogHandler.GetLowStock)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequireCapability(model.CapManageCatalog), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireCapability(model.CapManageCatalog), catalogHandler.UpdateProduct)
	protected.Put("/products/:id/stock", middleware.RequireCapability(model.CapManageCatalog), catalogHandler.AdjustStock)

	// Sales
	protected.Get("/sales", middleware.RequireCapability(model.CapViewReports), salesHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequireCapability(model.CapViewReports), salesHandler.GetSale)
	protected.Post("/sales", middleware.RequireCapability(model.CapRecordSale), salesHandler.CreateSale)

	// Purchasing
	protected.Get("/purchases", middleware.RequireCapability(model.CapRecordPurchase), purchasingHandler.GetPurchases)
	protected.Get("/purchases/:id", middleware.RequireCapability(model.CapRecordPurchase), purchasingHandler.GetPurchase)
	protected.Post("/purchases", middleware.RequireCapability(model.CapRecordPurchase), purchasingHandler.CreatePurchase)
	protected.Put("/purchases/:id/receive", middleware.RequireCapability(model.CapRecordPurchase), purchasingHandler.ReceivePurchase)
	protected.Put("/purchases/:id/cancel", middleware.RequireCapability(model.CapRecordPurchase), purchasingHandler.CancelPurchase)

	// Stock opname (approve/reject gated inside the service as well)
	protected.Get("/opname/template", opnameHandler.GetTemplate)
	protected.Get("/opname/sessions", opnameHandler.GetSessions)
	protected.Get("/opname/sessions/:id", opnameHandler.GetSession)
	protected.Post("/opname/sessions", opnameHandler.SaveSession)
	protected.Put("/opname/sessions/:id/details/:productId", opnameHandler.EditDetail)
	protected.Put("/opname/sessions/:id/propose", opnameHandler.Propose)
	protected.Put("/opname/sessions/:id/approve", middleware.RequireCapability(model.CapApproveOpname), opnameHandler.Approve)
	protected.Put("/opname/sessions/:id/reject", middleware.RequireCapability(model.CapApproveOpname), opnameHandler.Reject)

	// Dashboard / reports
	protected.Get("/dashboard/stats", middleware.RequireCapability(model.CapViewReports), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequireCapability(model.CapViewReports), dashHandler.GetStockMovement)
	protected.Get("/dashboard/sales-summary", middleware.RequireCapability(model.CapViewReports), dashHandler.GetSalesSummary)

	// User management
	protected.Get("/users", middleware.RequireCapability(model.CapManageUsers), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequireCapability(model.CapManageUsers), userHandler.GetUser)
	protected.Post("/users", middleware.RequireCapability(model.CapManageUsers), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequireCapability(model.CapManageUsers), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequireCapability(model.CapManageUsers), userHandler.DeleteUser)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
