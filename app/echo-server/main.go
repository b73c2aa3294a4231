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

	httpMetrics "smartShop/app/echo-server/metrics"
	"smartShop/app/echo-server/router"
	"smartShop/business/category"
	"smartShop/business/chat"
	"smartShop/business/policy"
	"smartShop/business/pricecompare"
	"smartShop/business/product"
	"smartShop/business/recommendation"
	"smartShop/business/review"
	"smartShop/business/seed"
	userService "smartShop/business/user"
	"smartShop/internal/middleware"
	"smartShop/internal/repository/openai"
	psqlRepo "smartShop/internal/repository/postgres"
	redisRepo "smartShop/internal/repository/redis"
	"smartShop/internal/rest"
	"smartShop/pkg/config"
	"smartShop/pkg/database"
	redisClient "smartShop/pkg/database/redis"
	"smartShop/pkg/logger"
	"smartShop/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Smart Shop API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Review summaries are cached only when redis is configured
	var summaryCache *redisRepo.SummaryRepository
	if cfg.Redis.Enabled {
		client, err := redisClient.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, review summary cache disabled", "error", err)
		} else {
			defer redisClient.CloseRedisClient(client)
			summaryCache = redisRepo.NewSummaryRepository(client, cfg.Redis.SummaryCacheTTL)
		}
	}

	model := openai.NewClient(cfg.OpenAI)
	if !model.Available() {
		logger.Info("OPENAI_API_KEY not set, model-assisted features use heuristics")
	}

	// Init validate
	validate := validator.New()

	// Init repo
	productRepo := psqlRepo.NewProductRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)
	policyRepo := psqlRepo.NewPolicyRepository(db)
	userRepo := psqlRepo.NewUserRepository(db)
	eventRepo := psqlRepo.NewUserEventRepository(db)
	catalogRepo := psqlRepo.NewCatalogRepository(db)

	// Nil interface values keep the services' nil checks honest
	var reviewCache review.SummaryCache
	var seedCache seed.SummaryCache
	if summaryCache != nil {
		reviewCache = summaryCache
		seedCache = summaryCache
	}

	if cfg.Seed.AutoSeed {
		seeder := seed.NewSeedService(catalogRepo, productRepo, userRepo, seedCache)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		seeded, err := seeder.SeedIfNeeded(ctx, cfg.Seed.DataDir)
		cancel()
		if err != nil {
			logger.Warn("Auto seed failed, continuing with current catalog", "error", err)
		} else if seeded {
			logger.Info("Auto seed completed", "data_dir", cfg.Seed.DataDir)
		}
	}

	// Init service
	productService := product.NewProductService(productRepo, userRepo)
	categoryService := category.NewCategoryService(productRepo)
	reviewService := review.NewReviewService(reviewRepo, model, reviewCache)
	policyService := policy.NewPolicyService(policyRepo, productRepo)
	priceService := pricecompare.NewPriceService(productRepo)
	recommendationService := recommendation.NewRecommendationService(productRepo, userRepo, eventRepo, model, recommendation.DefaultConfig())
	chatService := chat.NewChatService(productRepo, reviewService, policyService, priceService, recommendationService, model)
	userService := userService.NewUserService(userRepo, eventRepo, productRepo, validate)

	// Init handler
	productHandler := rest.NewProductHandler(productService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)
	reviewHandler := rest.NewReviewHandler(reviewService)
	priceHandler := rest.NewPriceHandler(priceService)
	policyHandler := rest.NewPolicyHandler(policyService)
	chatHandler := rest.NewChatHandler(chatService)
	userHandler := rest.NewUserHandler(userService)

	metrics.Init()
	httpMetrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(httpMetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	e.GET("/health", rest.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	api.GET("/health", rest.Health)
	router.SetupProductRoutes(api, productHandler)
	router.SetupCategoryRoutes(api, categoryHandler)
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetReviewRoutes(api, reviewHandler)
	router.SetPriceRoutes(api, priceHandler)
	router.SetPolicyRoutes(api, policyHandler)
	router.SetChatRoutes(api, chatHandler)
	router.SetupUserRoutes(api, userHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
