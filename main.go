package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"garagehub-api/config"
	"garagehub-api/database"
	"garagehub-api/jobs"
	"garagehub-api/middleware"
	"garagehub-api/routes"
	"garagehub-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Storage collaborator
	var storage services.Storage
	switch cfg.StorageType {
	case "minio":
		storage, err = services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		storage, err = services.NewLocalStorage(cfg.StoragePath)
	}
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	geocoder := services.NewMapboxGeocoder(cfg.MapboxToken)
	emailService := services.NewEmailService(cfg)

	// Background reconciliation of interrupted cascades
	reconcileJob := jobs.NewReconcileJob(db, 15*time.Minute)
	reconcileJob.Start()
	defer reconcileJob.Stop()

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	router.Use(routes.SetupCORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(120, 30))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, geocoder, storage, emailService)

	// Start server
	log.Printf("Starting GarageHub API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
