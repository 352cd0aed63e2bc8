package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jun0zo/SDS-Inventory-sub000/config"
	"github.com/Jun0zo/SDS-Inventory-sub000/database"
	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
	"github.com/Jun0zo/SDS-Inventory-sub000/web"
	"github.com/Jun0zo/SDS-Inventory-sub000/web/handlers"
)

func main() {
	// Command line flags
	var (
		migrate = flag.Bool("migrate", false, "Run database migration on startup")
		seed    = flag.Bool("seed", false, "Seed database with sample data")
		help    = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Check database connection and schema
	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatalf("Database connection check failed: %v", err)
	}

	// Run migration if requested
	if *migrate {
		log.Println("Running database migration...")
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Migration completed successfully")
	}

	// Seed database if requested
	if *seed {
		log.Println("Seeding database with sample data...")
		if err := database.SeedData(database.DB); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Database seeded successfully")
	}

	// Wire the reconciliation engine over the database
	source := database.NewEngineSource(database.DB)
	policy := engine.Policy{
		CapacityExclusiveThreshold: cfg.Engine.CapacityExclusiveThreshold,
		SeverityMinorBelow:         cfg.Engine.SeverityMinorBelow,
		SeverityModerateBelow:      cfg.Engine.SeverityModerateBelow,
		SeverityHighBelow:          cfg.Engine.SeverityHighBelow,
		DiscrepancyTopN:            cfg.Engine.DiscrepancyTopN,
		TopMaterials:               cfg.Engine.TopMaterials,
	}
	eng := engine.New(source, policy)

	notifier := engine.NewNotifier(cfg.Engine.RefreshDebounce, func() {
		report, err := eng.Refresh()
		if err != nil {
			log.Printf("Change-triggered refresh failed: %v", err)
			return
		}
		handlers.RecordRefresh(models.RefreshTriggerChange, report)
		handlers.InvalidateDashboardCache()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifier.Run(ctx)

	// Optional Redis cache for dashboard rollups
	cache := config.NewRedisClient(cfg.Redis)

	handlers.Init(eng, notifier, cache, cfg)

	// Build the first snapshot set before serving
	if report, err := eng.Refresh(); err != nil {
		log.Printf("Warning: initial refresh failed: %v", err)
	} else {
		handlers.RecordRefresh(models.RefreshTriggerBoot, report)
		log.Printf("Initial refresh: %d/%d snapshots built", report.Succeeded, report.Attempted)
	}

	// Create and start web server
	server := web.NewServer()

	go func() {
		if err := server.Start(cfg.App.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func showHelp() {
	log.Print(`
Warehouse Operations Dashboard Server

Usage:
  go run main.go [options]

Options:
  -migrate  Run GORM AutoMigrate on startup
  -seed     Seed database with sample data
  -help     Show this help message

Examples:
  # Start server only
  go run main.go

  # Start server with migration
  go run main.go -migrate

  # Start server with migration and seed
  go run main.go -migrate -seed

For full migration control, use:
  go run cmd/migrate/main.go

For full seed control, use:
  go run cmd/seed/main.go
`)
}
