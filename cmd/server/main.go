package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/wwi/backend/internal/application/identity"
	inventoryapp "github.com/wwi/backend/internal/application/inventory"
	partnerapp "github.com/wwi/backend/internal/application/partner"
	reportapp "github.com/wwi/backend/internal/application/report"
	tradeapp "github.com/wwi/backend/internal/application/trade"
	"github.com/wwi/backend/internal/infrastructure/config"
	"github.com/wwi/backend/internal/infrastructure/logger"
	"github.com/wwi/backend/internal/infrastructure/persistence"
	"github.com/wwi/backend/internal/interfaces/http/handler"
	"github.com/wwi/backend/internal/interfaces/http/middleware"
	"github.com/wwi/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WWI Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Int("branches", len(cfg.Branches)),
	)

	// Branch registry and pool manager. Pools open lazily on first use, so
	// startup succeeds even while branch databases are down.
	registry := persistence.NewRegistry(cfg.Branches)
	pools := persistence.NewPoolManager(registry, log)
	probe := persistence.NewHealthProbe(registry, pools)

	// Application services
	authService := identityapp.NewAuthService(pools, registry, cfg.JWT)
	customerService := partnerapp.NewCustomerService(pools)
	supplierService := partnerapp.NewSupplierService(pools)
	inventoryService := inventoryapp.NewService(pools)
	salesService := tradeapp.NewSalesService(pools)
	statsService := reportapp.NewStatsService(pools, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	salesHandler := handler.NewSalesHandler(salesService)
	statsHandler := handler.NewStatsHandler(statsService)
	systemHandler := handler.NewSystemHandler(probe)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BranchResolver())

	// Unprotected system routes
	systemHandler.RegisterRoutes(engine)

	// Resource routes run behind the branch gate; auth stays outside it
	gate := middleware.RequireBranch(registry)
	r := router.NewRouter(engine)
	r.Register(router.NewDomainGroup("auth", "/auth").
		POST("/login", authHandler.Login).
		GET("/tenants", authHandler.Tenants))
	r.Register(router.NewDomainGroup("clientes", "/clientes").
		Use(gate).
		GET("", customerHandler.List).
		GET("/:id", customerHandler.Detail))
	r.Register(router.NewDomainGroup("proveedores", "/proveedores").
		Use(gate).
		GET("", supplierHandler.List).
		GET("/:id", supplierHandler.Detail))
	r.Register(router.NewDomainGroup("inventario", "/inventario").
		Use(gate).
		GET("", inventoryHandler.List).
		GET("/reference/suppliers", inventoryHandler.ReferenceSuppliers).
		GET("/reference/colors", inventoryHandler.ReferenceColors).
		GET("/reference/packages", inventoryHandler.ReferencePackages).
		GET("/reference/stockgroups", inventoryHandler.ReferenceStockGroups).
		GET("/reference/stockgroups/:id", inventoryHandler.ProductStockGroups).
		GET("/check/:id", inventoryHandler.Check).
		GET("/:id", inventoryHandler.Detail).
		POST("", inventoryHandler.Insert).
		PUT("/:id", inventoryHandler.Update).
		DELETE("/:id", inventoryHandler.Delete))
	r.Register(router.NewDomainGroup("ventas", "/ventas").
		Use(gate).
		GET("", salesHandler.List).
		GET("/:id", salesHandler.Detail))
	r.Register(router.NewDomainGroup("estadisticas", "/estadisticas").
		Use(gate).
		GET("/compras", statsHandler.Purchases).
		GET("/ventas", statsHandler.Sales).
		GET("/top-productos", statsHandler.TopProducts).
		GET("/top-clientes", statsHandler.TopCustomers).
		GET("/top-proveedores", statsHandler.TopSuppliers))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := pools.CloseAll(ctx); err != nil {
		log.Error("Error closing branch pools", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
