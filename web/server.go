package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Jun0zo/SDS-Inventory-sub000/web/handlers"
	"github.com/Jun0zo/SDS-Inventory-sub000/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server serving the JSON API
func NewServer() *Server {
	app := fiber.New(fiber.Config{
		AppName: "warehouse-ops",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(middleware.SQLDebugMiddleware())

	setupRoutes(app)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Debug endpoint for SQL logs
	api.Get("/debug/sql", handlers.GetSQLLogs)
	api.Delete("/debug/sql", handlers.ClearSQLLogs)

	// Snapshot query surface (read-only)
	api.Get("/zones/capacity", handlers.ZoneCapacityList)
	api.Get("/zones/:code/capacity", handlers.ZoneCapacityByCode)
	api.Get("/items", handlers.ItemSnapshotList)
	api.Get("/items/:id/snapshot", handlers.ItemSnapshotByID)
	api.Get("/warehouses/:code/summary", handlers.WarehouseSummaryByCode)
	api.Get("/discrepancies", handlers.DiscrepancyList)
	api.Get("/snapshots", handlers.SnapshotVersions)

	// Dashboard rollups
	api.Get("/dashboard/stats", handlers.DashboardStats)
	api.Get("/dashboard/expiring", handlers.ExpiringItems)
	api.Get("/dashboard/unbound", handlers.UnboundPartitions)

	// Feed ingestion
	api.Post("/ingest", handlers.IngestBatch)

	// Binding management
	api.Get("/warehouses/:code/bindings", handlers.ListBindings)
	api.Put("/warehouses/:code/bindings", handlers.ReplaceBindings)

	// Refresh orchestration
	api.Post("/refresh", handlers.TriggerRefresh)
	api.Get("/refresh/history", handlers.RefreshHistory)
}
