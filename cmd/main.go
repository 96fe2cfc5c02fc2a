package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"duckfarm/internal/handler"
	mid "duckfarm/internal/middleware"
	"duckfarm/internal/model"
	"duckfarm/internal/report"
	"duckfarm/internal/sales"
	"duckfarm/internal/store/gormstore"
	"duckfarm/pkg/config"
	"duckfarm/pkg/database"
	"duckfarm/pkg/jwtutil"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

func main() {
	// Load .env file; missing file is fine, env vars may be set
	// directly in production environments
	_ = godotenv.Load()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting duckfarm-api",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&appConfig.JWT)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(db,
		&model.Duck{},
		&model.Customer{},
		&model.Seller{},
		&model.Sale{},
		&model.User{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Wire the store and the engines
	st := gormstore.New(db)
	saleEngine := sales.NewEngine(st, log)
	reportGen := report.NewGenerator(st, log)

	// Handlers
	authHandler := handler.NewAuthHandler(st, jwtUtil)
	duckHandler := handler.NewDuckHandler(st)
	customerHandler := handler.NewCustomerHandler(st)
	sellerHandler := handler.NewSellerHandler(st)
	saleHandler := handler.NewSaleHandler(saleEngine)
	reportHandler := handler.NewReportHandler(reportGen)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestID())
	e.Use(logger.Middleware())
	e.Use(mid.Metrics)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes
	e.POST("/api/auth/login", authHandler.Login)

	auth := mid.JWTAuth(jwtUtil)
	adminOnly := mid.RequireRoles(string(model.RoleAdmin))
	adminOrSeller := mid.RequireRoles(string(model.RoleAdmin), string(model.RoleSeller))
	adminOrManager := mid.RequireRoles(string(model.RoleAdmin), string(model.RoleManager))

	// User registration is restricted to admins
	e.POST("/api/auth/register", authHandler.Register, auth, adminOnly)

	// Duck API routes
	duckAPI := e.Group("/api/ducks", auth)
	duckAPI.GET("", duckHandler.ListDucks)
	duckAPI.GET("/available", duckHandler.ListAvailableDucks)
	duckAPI.GET("/status/:status", duckHandler.ListDucksByStatus)
	duckAPI.GET("/:id", duckHandler.GetDuck)
	duckAPI.POST("", duckHandler.CreateDuck, adminOrSeller)
	duckAPI.PUT("/:id", duckHandler.UpdateDuck, adminOrSeller)
	duckAPI.DELETE("/:id", duckHandler.DeleteDuck, adminOnly)

	// Customer API routes
	customerAPI := e.Group("/api/customers", auth)
	customerAPI.GET("", customerHandler.ListCustomers)
	customerAPI.GET("/:id", customerHandler.GetCustomer)
	customerAPI.GET("/:id/sales", saleHandler.ListSalesByCustomer)
	customerAPI.POST("", customerHandler.CreateCustomer, adminOrSeller)
	customerAPI.PUT("/:id", customerHandler.UpdateCustomer, adminOrSeller)
	customerAPI.DELETE("/:id", customerHandler.DeleteCustomer, adminOnly)

	// Seller API routes
	sellerAPI := e.Group("/api/sellers", auth)
	sellerAPI.GET("", sellerHandler.ListSellers)
	sellerAPI.GET("/:id", sellerHandler.GetSeller)
	sellerAPI.GET("/:id/sales", saleHandler.ListSalesBySeller)
	sellerAPI.GET("/ranking", reportHandler.SellerRankingReport, adminOrManager)
	sellerAPI.POST("", sellerHandler.CreateSeller, adminOnly)
	sellerAPI.PUT("/:id", sellerHandler.UpdateSeller, adminOnly)
	sellerAPI.DELETE("/:id", sellerHandler.DeleteSeller, adminOnly)

	// Sale API routes
	saleAPI := e.Group("/api/sales", auth)
	saleAPI.GET("", saleHandler.ListSales)
	saleAPI.GET("/:id", saleHandler.GetSale)
	saleAPI.POST("", saleHandler.CreateSale, adminOrSeller)
	saleAPI.PUT("/:id", saleHandler.UpdateSale, adminOrSeller)
	saleAPI.DELETE("/:id", saleHandler.DeleteSale, adminOnly)

	// Report API routes
	reportAPI := e.Group("/api/reports", auth, adminOrManager)
	reportAPI.GET("/sales", reportHandler.SalesReport)
	reportAPI.GET("/sales/period", reportHandler.SalesReportByPeriod)
	reportAPI.GET("/seller-ranking", reportHandler.SellerRankingReport)
	reportAPI.GET("/seller-ranking/period", reportHandler.SellerRankingReportByPeriod)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
