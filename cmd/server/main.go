package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/bakudeals/deal-scout/internal/catalog"
	"github.com/bakudeals/deal-scout/internal/config"
	"github.com/bakudeals/deal-scout/internal/database"
	"github.com/bakudeals/deal-scout/internal/handlers"
	"github.com/bakudeals/deal-scout/internal/middleware"
	"github.com/bakudeals/deal-scout/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database (users, plans, and optionally the catalog table)
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Pick the catalog provider
	var provider catalog.Provider
	switch cfg.CatalogSource {
	case "postgres":
		provider = catalog.NewTableProvider(db)
		log.Println("[Catalog] Using postgres catalog source")
	default:
		provider = catalog.NewCSVProvider(cfg.CatalogCSVPath)
		log.Printf("[Catalog] Using CSV catalog source: %s", cfg.CatalogCSVPath)
	}
	cache := catalog.NewCache(provider, cfg.CatalogLoadTimeout, cfg.CatalogLoadRetries)

	// Core services
	matcher := services.NewMatcher(cfg.MatchThreshold)
	grouper := services.NewGrouper(nil)
	geo := services.NewGeoFilter(nil)
	deals := services.NewDealService(cache, grouper, matcher, geo)
	optimizer := services.NewOptimizer(matcher)
	scans := services.NewScanStore(cfg.ScanSessionTTL)
	planSessions := services.NewPlanSessionStore(cfg.PlanSessionSecret, cfg.PlanSessionTTL)
	trips := services.NewTripStore()

	// Optional scan infrastructure
	var ocrService *services.OCRService
	if cfg.OCREnabled {
		ocrService, err = services.NewOCRService(cfg.OCRLanguages)
		if err != nil {
			log.Printf("Warning: Failed to initialize OCR service: %v", err)
		} else {
			defer ocrService.Close()
			log.Println("[Scan] OCR service initialized")
		}
	}

	var storageService *services.StorageService
	if cfg.StorageConfigured() {
		storageService, err = services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
			storageService = nil
		} else if err := storageService.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
		}
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, X-Plan-Session",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(middleware.Locale())

	h := handlers.New(handlers.Deps{
		DB:           db,
		Cfg:          cfg,
		Deals:        deals,
		Optimizer:    optimizer,
		Scans:        scans,
		PlanSessions: planSessions,
		Trips:        trips,
		OCR:          ocrService,
		Storage:      storageService,
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api/v1")

	// Home
	api.Get("/home/feed", h.GetHomeFeed)
	api.Get("/stores", h.GetStores)
	api.Get("/search", h.Search)

	// Scan
	api.Post("/scan/process", h.ProcessScan)
	api.Post("/scan/:scanId/confirm", h.ConfirmScan)
	api.Get("/scan/:scanId/image", h.GetScanImage)

	// Brand deals
	api.Get("/deals/brands", h.GetBrandDeals)

	// Planning
	api.Post("/planning/optimize", h.OptimizePlan)
	api.Get("/planning/route/:optionId", h.GetRouteDetails)

	// Trips
	api.Post("/trips", h.SaveTrip)
	api.Get("/trips/last", h.GetLastTrip)

	// Watchlist
	api.Get("/watchlist", h.GetWatchlist)

	// Auth
	api.Post("/auth/device-login", h.DeviceLogin)
	api.Put("/auth/profile", h.UpdateProfile)

	// Plans
	api.Post("/plans", h.SavePlan)
	api.Get("/plans/:userId", h.GetPlans)
	api.Post("/plans/:planId/items", h.AddPlanItem)
	api.Put("/plans/:planId/complete", h.CompletePlan)
	api.Delete("/plans/:planId", h.DeletePlan)
	api.Get("/plans/:userId/stats", h.GetPlanStats)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
