package router

import (
	"time"

	"poultrycore/internal/config"
	"poultrycore/internal/handler"
	"poultrycore/internal/middleware"
	"poultrycore/internal/repository"
	"poultrycore/internal/service"
	"poultrycore/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	skuRepo := repository.NewSKURepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	reasonRepo := repository.NewReasonCodeRepository(db)
	wastageRepo := repository.NewWastageConfigRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	processingRepo := repository.NewProcessingRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	varianceRepo := repository.NewVarianceRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	gradingConfigRepo := repository.NewGradingConfigRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	stockSvc := service.NewStockService(ledgerRepo, reasonRepo, storeRepo, rdb)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, storeRepo, stockSvc)
	processingSvc := service.NewProcessingService(processingRepo, wastageRepo, storeRepo, stockSvc)
	saleSvc := service.NewSaleService(saleRepo, skuRepo, storeRepo, stockSvc, dispatcher)
	transferSvc := service.NewTransferService(transferRepo, storeRepo, stockSvc)
	settlementSvc := service.NewSettlementService(settlementRepo, varianceRepo, saleRepo, storeRepo, pointsRepo, reasonRepo, stockSvc, dispatcher, cfg)
	varianceSvc := service.NewVarianceService(varianceRepo, reasonRepo, pointsRepo, stockSvc)
	gradingSvc := service.NewGradingService(performanceRepo, pointsRepo, gradingConfigRepo, reasonRepo, saleRepo, processingRepo, varianceRepo)
	catalogSvc := service.NewCatalogService(skuRepo, supplierRepo, storeRepo)
	scheduledSvc := service.NewScheduledService(settlementRepo, varianceRepo, pointsRepo, reasonRepo, storeRepo, userRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	stockH := handler.NewStockHandler(stockSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	processingH := handler.NewProcessingHandler(processingSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	transfersH := handler.NewTransfersHandler(transferSvc)
	settlementsH := handler.NewSettlementsHandler(settlementSvc)
	varianceH := handler.NewVarianceHandler(varianceSvc)
	gradingH := handler.NewGradingHandler(gradingSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	adminH := handler.NewAdminHandler(scheduledSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: staff, manager, admin — declared per-endpoint
		anyRole := middleware.RequireRole("staff", "manager", "admin")
		managerUp := middleware.RequireRole("manager", "admin")
		adminOnly := middleware.RequireRole("admin")

		// Stock — read for everyone at the store, adjustments for managers
		v1.GET("/stores/:storeID/stock", anyRole, stockH.Matrix)
		v1.GET("/stores/:storeID/movement", anyRole, stockH.Movement)
		v1.GET("/stores/:storeID/ledger", managerUp, stockH.Ledger)
		v1.POST("/stores/:storeID/adjustments", managerUp, stockH.CreateAdjustment)

		purchases := v1.Group("/purchases", anyRole)
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.Get)
			purchases.POST("/:id/commit", purchasesH.Commit)
			purchases.POST("/:id/cancel", middleware.RequireRole("manager", "admin"), purchasesH.Cancel)
		}

		processing := v1.Group("/processing", anyRole)
		{
			processing.POST("", processingH.Create)
			processing.POST("/calculate", processingH.Calculate)
			processing.GET("", processingH.List)
			processing.GET("/:id", processingH.Get)
		}
		wastage := v1.Group("/wastage-configs", adminOnly)
		{
			wastage.POST("", processingH.CreateWastageConfig)
			wastage.GET("", processingH.ListWastageConfigs)
			wastage.DELETE("/:id", processingH.DeactivateWastageConfig)
		}

		sales := v1.Group("/sales", anyRole)
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
		}
		v1.GET("/stores/:storeID/sales-summary", anyRole, salesH.DailySummary)

		transfers := v1.Group("/transfers", managerUp)
		{
			transfers.POST("", transfersH.Create)
			transfers.GET("", transfersH.List)
		}

		// Settlements — staff open and submit the blind count; approval,
		// locking and the expected preview are manager-side.
		settlements := v1.Group("/settlements")
		{
			settlements.POST("", anyRole, settlementsH.Create)
			settlements.GET("", anyRole, settlementsH.List)
			settlements.GET("/:id", anyRole, settlementsH.Get)
			settlements.POST("/:id/submit", anyRole, settlementsH.Submit)
			settlements.POST("/:id/approve", managerUp, settlementsH.Approve)
			settlements.POST("/:id/lock", adminOnly, settlementsH.Lock)
			settlements.GET("/:id/variances", managerUp, varianceH.ListBySettlement)
		}
		v1.GET("/stores/:storeID/expected", managerUp, settlementsH.Expected)

		variances := v1.Group("/variances", managerUp)
		{
			variances.GET("", varianceH.List)
			variances.GET("/:id", varianceH.Get)
			variances.POST("/:id/approve", varianceH.Approve)
			variances.POST("/:id/reject", varianceH.Reject)
		}

		grading := v1.Group("/grading")
		{
			grading.POST("/generate", managerUp, gradingH.Generate)
			grading.POST("/lock", adminOnly, gradingH.Lock)
			grading.GET("/performance", managerUp, gradingH.ListPerformance)
			grading.GET("/me", anyRole, gradingH.MyPerformance)
			grading.GET("/me/points", anyRole, gradingH.MyPoints)
			grading.POST("/points", adminOnly, gradingH.AwardPoints)
			grading.GET("/config", managerUp, gradingH.GetConfig)
			grading.PUT("/config", adminOnly, gradingH.UpdateConfig)
			grading.GET("/reason-codes", managerUp, gradingH.ListReasonCodes)
			grading.PATCH("/reason-codes/:code", adminOnly, gradingH.UpdateReasonCode)
		}

		// Catalog — everyone reads SKUs (the sale screen needs them), admin writes
		v1.GET("/skus", anyRole, catalogH.ListSKUs)
		skus := v1.Group("/skus", adminOnly)
		{
			skus.POST("", catalogH.CreateSKU)
			skus.PUT("/:id", catalogH.UpdateSKU)
		}

		suppliers := v1.Group("/suppliers", managerUp)
		{
			suppliers.POST("", catalogH.CreateSupplier)
			suppliers.GET("", catalogH.ListSuppliers)
			suppliers.PUT("/:id", catalogH.UpdateSupplier)
		}

		v1.GET("/stores", anyRole, catalogH.ListStores)
		stores := v1.Group("/stores", adminOnly)
		{
			stores.POST("", catalogH.CreateStore)
			stores.PUT("/:storeID", catalogH.UpdateStore)
		}

		// Manual trigger for the daily penalty sweep (also runs on a cron).
		v1.POST("/admin/daily-checks", adminOnly, adminH.RunDailyChecks)

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	return r
}
