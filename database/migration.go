package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS warehouse_ops").Error; err != nil {
		log.Printf("Warning: Could not create schema: %v", err)
	}

	if err := db.Exec("SET search_path TO warehouse_ops").Error; err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	allModels := models.AllModels()

	// First pass: create tables without foreign keys, then wire the
	// constraints manually. Feed row tables deliberately get no FKs so
	// rows can land before bindings and layout exist.
	log.Println("Creating tables...")
	migrator := db.Migrator()

	for _, model := range allModels {
		tableName := migrator.CurrentDatabase()
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			tableName = stmt.Schema.Table
		}

		if !migrator.HasTable(model) {
			if err := migrator.CreateTable(model); err != nil {
				log.Printf("  ⚠ Warning: Could not create table %s: %v", tableName, err)
				continue
			}
			log.Printf("  ✓ Created table: %s", tableName)
		} else {
			log.Printf("  ✓ Table already exists: %s", tableName)
		}
	}

	log.Println("Creating foreign key constraints...")
	if err := CreateForeignKeys(db); err != nil {
		log.Printf("Warning: Some foreign keys could not be created: %v", err)
	}

	log.Println("Adding custom constraints...")
	if err := AddCustomConstraints(db); err != nil {
		log.Printf("Warning: Some custom constraints could not be added: %v", err)
	}

	log.Println("Creating indexes...")
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CheckConnection verifies the database connection and schema
func CheckConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var schemaExists bool
	err = db.Raw("SELECT EXISTS(SELECT 1 FROM information_schema.schemata WHERE schema_name = 'warehouse_ops')").Scan(&schemaExists).Error
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}

	if !schemaExists {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS warehouse_ops").Error; err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		log.Println("Created 'warehouse_ops' schema")
	}

	return nil
}

// CreateForeignKeys creates all foreign key constraints. Deleting a
// warehouse cascades through zones, items and overrides; feed rows and
// the refresh log are intentionally unconstrained.
func CreateForeignKeys(db *gorm.DB) error {
	foreignKeys := []struct {
		table     string
		name      string
		column    string
		refTable  string
		refColumn string
		onDelete  string
	}{
		{"zones", "fk_zones_warehouse", "warehouse_id", "warehouses", "warehouse_id", "CASCADE"},
		{"source_bindings", "fk_source_bindings_warehouse", "warehouse_id", "warehouses", "warehouse_id", "CASCADE"},
		{"storage_items", "fk_storage_items_zone", "zone_id", "zones", "zone_id", "CASCADE"},
		{"floor_overrides", "fk_floor_overrides_item", "item_id", "storage_items", "item_id", "CASCADE"},
		{"cell_overrides", "fk_cell_overrides_item", "item_id", "storage_items", "item_id", "CASCADE"},
	}

	for _, fk := range foreignKeys {
		var count int64
		db.Raw(`
			SELECT COUNT(*) FROM information_schema.table_constraints
			WHERE constraint_type = 'FOREIGN KEY'
			AND table_schema = 'warehouse_ops'
			AND table_name = ?
			AND constraint_name = ?
		`, fk.table, fk.name).Scan(&count)

		if count > 0 {
			log.Printf("  ✓ Foreign key already exists: %s", fk.name)
			continue
		}

		query := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE %s",
			fk.table, fk.name, fk.column, fk.refTable, fk.refColumn, fk.onDelete,
		)

		if err := db.Exec(query).Error; err != nil {
			log.Printf("  ⚠ Failed to create foreign key %s: %v", fk.name, err)
		} else {
			log.Printf("  ✓ Created foreign key: %s", fk.name)
		}
	}

	return nil
}

// AddCustomConstraints adds database constraints that GORM doesn't handle automatically
func AddCustomConstraints(db *gorm.DB) error {
	constraints := []struct {
		name  string
		query string
	}{
		// A (source, split) pair binds to at most one warehouse
		{"unique_source_split", "ALTER TABLE source_bindings ADD CONSTRAINT unique_source_split UNIQUE (source_id, split_value)"},
		{"unique_warehouse_zone", "ALTER TABLE zones ADD CONSTRAINT unique_warehouse_zone UNIQUE (warehouse_id, zone_code)"},
		{"unique_zone_location", "ALTER TABLE storage_items ADD CONSTRAINT unique_zone_location UNIQUE (zone_id, location_code)"},
		{"unique_item_floor", "ALTER TABLE floor_overrides ADD CONSTRAINT unique_item_floor UNIQUE (item_id, floor_idx)"},
		{"unique_item_cell", "ALTER TABLE cell_overrides ADD CONSTRAINT unique_item_cell UNIQUE (item_id, floor_idx, col_idx)"},
		{"check_item_kind", "ALTER TABLE storage_items ADD CONSTRAINT check_item_kind CHECK (kind IN ('flat', 'rack'))"},
		{"check_feed_type", "ALTER TABLE source_bindings ADD CONSTRAINT check_feed_type CHECK (feed_type IN ('location', 'status'))"},
	}

	for _, c := range constraints {
		if err := db.Exec(c.query).Error; err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "42710") {
				log.Printf("  ⚠ Failed to add constraint %s: %v", c.name, err)
			}
		} else {
			log.Printf("  ✓ Added constraint: %s", c.name)
		}
	}

	return nil
}

// CreateIndexes creates performance indexes
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Current-batch filtering scans these constantly
		{"idx_location_rows_source_batch", "CREATE INDEX IF NOT EXISTS idx_location_rows_source_batch ON location_rows(source_id, split_key, batch_id)"},
		{"idx_location_rows_fetched", "CREATE INDEX IF NOT EXISTS idx_location_rows_fetched ON location_rows(fetched_at)"},
		{"idx_status_rows_source_batch", "CREATE INDEX IF NOT EXISTS idx_status_rows_source_batch ON status_rows(source_id, split_key, batch_id)"},
		{"idx_status_rows_fetched", "CREATE INDEX IF NOT EXISTS idx_status_rows_fetched ON status_rows(fetched_at)"},

		{"idx_location_rows_item", "CREATE INDEX IF NOT EXISTS idx_location_rows_item ON location_rows(item_code)"},
		{"idx_location_rows_valid", "CREATE INDEX IF NOT EXISTS idx_location_rows_valid ON location_rows(valid_date)"},
		{"idx_status_rows_item", "CREATE INDEX IF NOT EXISTS idx_status_rows_item ON status_rows(item_code)"},

		{"idx_storage_items_zone", "CREATE INDEX IF NOT EXISTS idx_storage_items_zone ON storage_items(zone_id)"},
		{"idx_zones_warehouse", "CREATE INDEX IF NOT EXISTS idx_zones_warehouse ON zones(warehouse_id)"},
		{"idx_refresh_logs_created", "CREATE INDEX IF NOT EXISTS idx_refresh_logs_created ON refresh_logs(created_at)"},
	}

	successCount := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Printf("  ⚠ Failed to create index %s: %v", idx.name, err)
		} else {
			log.Printf("  ✓ Created index: %s", idx.name)
			successCount++
		}
	}

	if successCount > 0 {
		log.Printf("Successfully created %d indexes", successCount)
	}

	return nil
}
