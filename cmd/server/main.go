package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scrap-backend/internal/auth"
	"scrap-backend/internal/cache"
	"scrap-backend/internal/config"
	"scrap-backend/internal/database"
	"scrap-backend/internal/db"
	"scrap-backend/internal/handlers"
	"scrap-backend/internal/health"
	h "scrap-backend/internal/http"
	"scrap-backend/internal/middleware"
	"scrap-backend/internal/monitoring"
	"scrap-backend/internal/repositories"
	"scrap-backend/internal/scale"
	"scrap-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, "migrations")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	productionRepo := repositories.NewProductionRepository(pool)
	receptionRepo := repositories.NewReceptionRepository(pool)
	stockRepo := repositories.NewStockRepository(pool)
	historyRepo := repositories.NewHistoryRepository(pool)
	catalogRepo := repositories.NewCatalogRepository(pool)

	// Services
	historyService := services.NewHistoryService(historyRepo)
	userService := services.NewUserService(userRepo, jwtManager)
	productionService := services.NewProductionService(productionRepo, catalogRepo, historyService)
	receptionService := services.NewReceptionService(receptionRepo, historyService)
	stockService := services.NewStockService(stockRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	dashboardService := services.NewDashboardService(productionRepo, receptionRepo, stockRepo, userRepo)
	reconciliationService := services.NewReconciliationService(
		productionRepo, receptionRepo,
		cfg.Reconciliation.DiscrepancyThresholdKg,
		cfg.Reconciliation.TopDiscrepancies,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	productionHandler := handlers.NewProductionHandler(productionService)
	receptionHandler := handlers.NewReceptionHandler(receptionService)
	stockHandler := handlers.NewStockHandler(stockService)
	contraloriaHandler := handlers.NewContraloriaHandler(reconciliationService, historyService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	scaleHandler := handlers.NewScaleHandler(scale.NewReader(cfg))
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler, userHandler, productionHandler, receptionHandler,
		stockHandler, contraloriaHandler, catalogHandler, dashboardHandler,
		scaleHandler, healthHandler, authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.NewCORS(cfg)(router),
		),
	)

	// Monitoring server on its own port
	go monitoring.NewServer(pool, cfg.Monitoring.Port).Start()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[Server] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Server] shutdown error: %v", err)
	}
}
