package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

// SeedData seeds a small sample warehouse into empty tables: one
// warehouse with two zones, a rack and a flat item with overrides,
// bindings for both feeds, a catalog and one batch of each feed.
func SeedData(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	var count int64
	db.Model(&models.Warehouse{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data. Skipping seed.")
		return nil
	}

	log.Println("Database is empty. Starting seed process...")

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET search_path TO warehouse_ops").Error; err != nil {
			return fmt.Errorf("failed to set search path: %w", err)
		}

		warehouse := models.Warehouse{
			WarehouseCode:        "WH-EA",
			WarehouseName:        "East Assembly Warehouse",
			Location:             strPtr("Building 2, East Campus"),
			ManagerName:          strPtr("S. Park"),
			ConsumesLocationFeed: true,
			ConsumesStatusFeed:   true,
		}
		if err := tx.Create(&warehouse).Error; err != nil {
			return fmt.Errorf("failed to seed warehouse: %w", err)
		}

		zones := []models.Zone{
			{WarehouseID: warehouse.WarehouseID, ZoneCode: "EA2-A", ZoneName: strPtr("East A2 block"), GridRows: intPtr(12), GridCols: intPtr(20)},
			{WarehouseID: warehouse.WarehouseID, ZoneCode: "EA2-B", ZoneName: strPtr("East B2 block"), GridRows: intPtr(8), GridCols: intPtr(16)},
		}
		if err := tx.Create(&zones).Error; err != nil {
			return fmt.Errorf("failed to seed zones: %w", err)
		}

		rack := models.StorageItem{
			ZoneID:              zones[0].ZoneID,
			LocationCode:        "A35",
			Kind:                models.ItemKindRack,
			Floors:              3,
			Rows:                1,
			Cols:                4,
			DefaultCellCapacity: intPtr(1),
			Restriction: models.PlacementRestriction{
				MajorCategory: strPtr("RAW"),
			},
		}
		if err := tx.Create(&rack).Error; err != nil {
			return fmt.Errorf("failed to seed rack item: %w", err)
		}

		overrides := []models.FloorOverride{
			{ItemID: rack.ItemID, FloorIdx: 3, Capacity: intPtr(2)},
		}
		if err := tx.Create(&overrides).Error; err != nil {
			return fmt.Errorf("failed to seed floor overrides: %w", err)
		}
		cellOverrides := []models.CellOverride{
			{ItemID: rack.ItemID, FloorIdx: 1, ColIdx: 1, Available: boolPtr(false)},
			{ItemID: rack.ItemID, FloorIdx: 2, ColIdx: 4, Restriction: models.PlacementRestriction{ItemCodes: strPtr("MAT-001,MAT-002")}},
		}
		if err := tx.Create(&cellOverrides).Error; err != nil {
			return fmt.Errorf("failed to seed cell overrides: %w", err)
		}

		flat := models.StorageItem{
			ZoneID:       zones[1].ZoneID,
			LocationCode: "PAD-07",
			Kind:         models.ItemKindFlat,
			MaxCapacity:  intPtr(40),
		}
		if err := tx.Create(&flat).Error; err != nil {
			return fmt.Errorf("failed to seed flat item: %w", err)
		}

		bindings := []models.SourceBinding{
			{WarehouseID: warehouse.WarehouseID, SourceID: "wms-east", SplitValue: strPtr("EA2A"), FeedType: models.FeedTypeLocation, ZoneCode: "EA2-A"},
			{WarehouseID: warehouse.WarehouseID, SourceID: "wms-east", SplitValue: strPtr("EA2B"), FeedType: models.FeedTypeLocation, ZoneCode: "EA2-B"},
			{WarehouseID: warehouse.WarehouseID, SourceID: "sap-2100", FeedType: models.FeedTypeStatus, ZoneCode: "EA2-A"},
		}
		if err := tx.Create(&bindings).Error; err != nil {
			return fmt.Errorf("failed to seed source bindings: %w", err)
		}

		catalog := []models.MaterialCatalogEntry{
			{ItemCode: "MAT-001", MajorCategory: strPtr("RAW"), MinorCategory: strPtr("STEEL")},
			{ItemCode: "MAT-002", MajorCategory: strPtr("RAW"), MinorCategory: strPtr("ALUM")},
			{ItemCode: "MAT-100", MajorCategory: strPtr("FINISHED"), MinorCategory: strPtr("PANEL")},
		}
		if err := tx.Create(&catalog).Error; err != nil {
			return fmt.Errorf("failed to seed material catalog: %w", err)
		}

		now := time.Now()
		validSoon := now.AddDate(0, 0, 20)
		batch := now.Format("20060102T150405")

		locationRows := []models.LocationRow{
			{SourceID: "wms-east", SplitKey: strPtr("EA2A"), ItemCode: "MAT-001", ZoneCode: "EA2A", CellNo: "A35-01-02", LotNo: strPtr("L2401"), AvailableQty: floatPtr(12), TotalQty: floatPtr(12), ValidDate: &validSoon, FetchedAt: now, BatchID: batch},
			{SourceID: "wms-east", SplitKey: strPtr("EA2A"), ItemCode: "MAT-002", ZoneCode: "EA2A", CellNo: "A35-03-01", LotNo: strPtr("L2402"), AvailableQty: floatPtr(8), FetchedAt: now, BatchID: batch},
			{SourceID: "wms-east", SplitKey: strPtr("EA2A"), ItemCode: "MAT-100", ZoneCode: "EA2A", CellNo: "A35-02-04", FetchedAt: now, BatchID: batch},
			{SourceID: "wms-east", SplitKey: strPtr("EA2B"), ItemCode: "MAT-100", ZoneCode: "EA2B", CellNo: "PAD-07", AvailableQty: floatPtr(30), FetchedAt: now, BatchID: batch},
		}
		if err := tx.Create(&locationRows).Error; err != nil {
			return fmt.Errorf("failed to seed location rows: %w", err)
		}

		statusRows := []models.StatusRow{
			{SourceID: "sap-2100", ItemCode: "MAT-001", StorageLocation: "2100", Batch: strPtr("L2401"), UnrestrictedQty: 10, InspectionQty: 2, FetchedAt: now, BatchID: batch},
			{SourceID: "sap-2100", ItemCode: "MAT-002", StorageLocation: "2100", Batch: strPtr("L2402"), UnrestrictedQty: 11, FetchedAt: now, BatchID: batch},
		}
		if err := tx.Create(&statusRows).Error; err != nil {
			return fmt.Errorf("failed to seed status rows: %w", err)
		}

		log.Println("Seed completed successfully")
		return nil
	})
}
