package main

import (
	"log"

	"wanderlog/internal/router"
	"wanderlog/internal/validators"
	"wanderlog/pkg/cache"
	"wanderlog/pkg/config"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Feed cache; runs degraded without Redis
	cache.Init(cfg.RedisAddr)
	defer cache.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
