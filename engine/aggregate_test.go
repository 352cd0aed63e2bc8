package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

func floatPtr(f float64) *float64 { return &f }

func locationRow(source, split, itemCode, cellNo string, qty *float64, lot *string, fetched time.Time) models.LocationRow {
	return models.LocationRow{
		SourceID:     source,
		SplitKey:     strPtr(split),
		ItemCode:     itemCode,
		CellNo:       cellNo,
		LotNo:        lot,
		AvailableQty: qty,
		FetchedAt:    fetched,
		BatchID:      "batch-1",
	}
}

// testDataset is one warehouse with a rack and a flat item in one zone.
func testDataset() *engine.Dataset {
	return &engine.Dataset{
		Warehouses: []models.Warehouse{
			{WarehouseID: 1, WarehouseCode: "WH-EA", WarehouseName: "East"},
		},
		Zones: []models.Zone{
			{ZoneID: 10, WarehouseID: 1, ZoneCode: "EA2-A", LayoutVersion: 1},
		},
		Items: []models.StorageItem{
			{
				ItemID:       100,
				ZoneID:       10,
				LocationCode: "A35",
				Kind:         models.ItemKindRack,
				Floors:       2,
				Rows:         1,
				Cols:         2,
				CellOverrides: []models.CellOverride{
					{ItemID: 100, FloorIdx: 1, ColIdx: 2, Capacity: intPtr(3)},
				},
				Restriction: models.PlacementRestriction{MajorCategory: strPtr("RAW")},
			},
			{
				ItemID:       101,
				ZoneID:       10,
				LocationCode: "PAD-07",
				Kind:         models.ItemKindFlat,
				MaxCapacity:  intPtr(10),
			},
		},
		Bindings: []models.SourceBinding{
			{WarehouseID: 1, SourceID: "wms-east", SplitValue: strPtr("EA2A"), FeedType: models.FeedTypeLocation, ZoneCode: "EA2-A"},
			{WarehouseID: 1, SourceID: "sap-2100", FeedType: models.FeedTypeStatus, ZoneCode: "EA2-A"},
		},
		Catalog: []models.MaterialCatalogEntry{
			{ItemCode: "MAT-001", MajorCategory: strPtr("RAW"), MinorCategory: strPtr("STEEL")},
			{ItemCode: "MAT-100", MajorCategory: strPtr("FINISHED"), MinorCategory: strPtr("PANEL")},
		},
	}
}

func itemByID(t *testing.T, items []engine.ItemSnapshot, id uint) *engine.ItemSnapshot {
	t.Helper()
	for i := range items {
		if items[i].ItemID == id {
			return &items[i]
		}
	}
	t.Fatalf("no snapshot for item %d", id)
	return nil
}

func TestCapacityAwareCounting(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	now := time.Now()

	ds := testDataset()
	// Three rows on the capacity-1 cell, three on the capacity-3 cell.
	for i := 0; i < 3; i++ {
		ds.LocationRows = append(ds.LocationRows,
			locationRow("wms-east", "EA2A", "MAT-001", "A35-01-01", floatPtr(1), nil, now),
			locationRow("wms-east", "EA2A", "MAT-001", "A35-01-02", floatPtr(1), nil, now),
		)
	}

	snap := itemByID(t, b.BuildItemSnapshots(ds), 100)

	// Capacity-1 cell contributes 1, capacity-3 cell contributes 3.
	if snap.OccupiedCount != 4 {
		t.Errorf("OccupiedCount = %d, want 4", snap.OccupiedCount)
	}
	// 2x2 grid with one cell raised to 3: 3 + 1 + 1 + 1.
	if snap.TotalCapacity != 6 {
		t.Errorf("TotalCapacity = %d, want 6", snap.TotalCapacity)
	}
	if snap.UtilizationPct != 66.67 {
		t.Errorf("UtilizationPct = %v, want 66.67", snap.UtilizationPct)
	}
}

func TestFlatItemCountsEveryRow(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	now := time.Now()

	ds := testDataset()
	for i := 0; i < 4; i++ {
		ds.LocationRows = append(ds.LocationRows,
			locationRow("wms-east", "EA2A", "MAT-100", "PAD-07", floatPtr(2), nil, now))
	}

	snap := itemByID(t, b.BuildItemSnapshots(ds), 101)
	if snap.OccupiedCount != 4 {
		t.Errorf("OccupiedCount = %d, want 4", snap.OccupiedCount)
	}
	if !snap.TotalQuantity.Equal(decimal.NewFromInt(8)) {
		t.Errorf("TotalQuantity = %s, want 8", snap.TotalQuantity)
	}
	if snap.UtilizationPct != 40.0 {
		t.Errorf("UtilizationPct = %v, want 40.0", snap.UtilizationPct)
	}
}

func TestZeroCapacityUtilization(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	now := time.Now()

	ds := testDataset()
	ds.Items[1].MaxCapacity = intPtr(0)
	ds.LocationRows = append(ds.LocationRows,
		locationRow("wms-east", "EA2A", "MAT-100", "PAD-07", floatPtr(2), nil, now))

	snap := itemByID(t, b.BuildItemSnapshots(ds), 101)
	if snap.OccupiedCount != 1 {
		t.Errorf("OccupiedCount = %d, want 1", snap.OccupiedCount)
	}
	if snap.UtilizationPct != 0 {
		t.Errorf("UtilizationPct = %v, want 0 for zero capacity", snap.UtilizationPct)
	}
}

func TestUnboundPartitionExcluded(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	now := time.Now()

	ds := testDataset()
	ds.LocationRows = append(ds.LocationRows,
		locationRow("wms-east", "EA2A", "MAT-001", "A35-01-01", floatPtr(5), nil, now),
		locationRow("wms-unknown", "EA2A", "MAT-001", "A35-02-01", floatPtr(5), nil, now),
	)

	items := b.BuildItemSnapshots(ds)
	snap := itemByID(t, items, 100)
	if snap.OccupiedCount != 1 {
		t.Errorf("OccupiedCount = %d, want 1 (unbound row excluded)", snap.OccupiedCount)
	}
	if len(snap.Rows) != 1 {
		t.Errorf("contributing rows = %d, want 1", len(snap.Rows))
	}

	missing := b.UnboundPartitions(ds)
	if len(missing) != 1 || missing[0].SourceID != "wms-unknown" {
		t.Errorf("UnboundPartitions = %+v, want wms-unknown only", missing)
	}
}

func TestMisplacedRowsTalliedSeparately(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	now := time.Now()

	ds := testDataset()
	// MAT-100 is FINISHED; the rack restricts to RAW. The row still
	// consumes capacity but shows up in the misplaced tally.
	ds.LocationRows = append(ds.LocationRows,
		locationRow("wms-east", "EA2A", "MAT-001", "A35-01-01", floatPtr(1), nil, now),
		locationRow("wms-east", "EA2A", "MAT-100", "A35-02-01", floatPtr(1), nil, now),
	)

	snap := itemByID(t, b.BuildItemSnapshots(ds), 100)
	if snap.OccupiedCount != 2 {
		t.Errorf("OccupiedCount = %d, want 2 (misplaced still occupies)", snap.OccupiedCount)
	}
	if snap.MisplacedCount != 1 {
		t.Errorf("MisplacedCount = %d, want 1", snap.MisplacedCount)
	}
}

func TestLotDistributionAndQuantityFallback(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	early := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

	ds := testDataset()
	noQty := locationRow("wms-east", "EA2A", "MAT-100", "PAD-07", nil, nil, early)
	ds.LocationRows = append(ds.LocationRows,
		locationRow("wms-east", "EA2A", "MAT-100", "PAD-07", floatPtr(7), strPtr("L1"), late),
		locationRow("wms-east", "EA2A", "MAT-100", "PAD-07", floatPtr(3), strPtr("L1"), early),
		noQty,
	)

	snap := itemByID(t, b.BuildItemSnapshots(ds), 101)

	if len(snap.LotDistribution) != 2 {
		t.Fatalf("lot distribution size = %d, want 2", len(snap.LotDistribution))
	}
	if snap.LotDistribution[0].LotKey != "L1" || !snap.LotDistribution[0].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("top lot = %+v, want L1 qty 10", snap.LotDistribution[0])
	}
	// A row with no quantity counts as one unit under NO_LOT.
	if snap.LotDistribution[1].LotKey != engine.NoLotKey || !snap.LotDistribution[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("fallback lot = %+v, want NO_LOT qty 1", snap.LotDistribution[1])
	}
	if !snap.LastUpdated.Equal(late) {
		t.Errorf("LastUpdated = %v, want %v", snap.LastUpdated, late)
	}
}

func TestZoneAndWarehouseRollups(t *testing.T) {
	b := engine.NewBuilder(engine.DefaultPolicy())
	now := time.Now()

	ds := testDataset()
	ds.LocationRows = append(ds.LocationRows,
		locationRow("wms-east", "EA2A", "MAT-001", "A35-01-01", floatPtr(5), nil, now),
		locationRow("wms-east", "EA2A", "MAT-100", "PAD-07", floatPtr(4), nil, now),
	)
	ds.StatusRows = append(ds.StatusRows, models.StatusRow{
		SourceID:        "sap-2100",
		ItemCode:        "MAT-001",
		UnrestrictedQty: 6,
		InspectionQty:   2,
		BlockedQty:      1,
		ReturnedQty:     1,
		FetchedAt:       now,
		BatchID:         "batch-1",
	})

	items := b.BuildItemSnapshots(ds)
	zones := b.BuildZoneSnapshots(ds, items)
	if len(zones) != 1 {
		t.Fatalf("zones = %d, want 1", len(zones))
	}
	// Rack: cell (1,2) raised to 3, rest 1 → 6. Flat: 10.
	if zones[0].TotalCapacity != 16 {
		t.Errorf("zone TotalCapacity = %d, want 16", zones[0].TotalCapacity)
	}
	if zones[0].OccupiedCount != 2 {
		t.Errorf("zone OccupiedCount = %d, want 2", zones[0].OccupiedCount)
	}
	if zones[0].SKUCount != 2 {
		t.Errorf("zone SKUCount = %d, want 2", zones[0].SKUCount)
	}
	if !zones[0].TotalQuantity.Equal(decimal.NewFromInt(9)) {
		t.Errorf("zone TotalQuantity = %s, want 9", zones[0].TotalQuantity)
	}

	warehouses := b.BuildWarehouseSnapshots(ds, items, zones)
	if len(warehouses) != 1 {
		t.Fatalf("warehouses = %d, want 1", len(warehouses))
	}
	wh := warehouses[0]
	if wh.ZoneCount != 1 || wh.TotalCapacity != 16 || wh.OccupiedCount != 2 {
		t.Errorf("warehouse rollup = %+v", wh)
	}
	if !wh.Status.Unrestricted.Equal(decimal.NewFromInt(6)) ||
		!wh.Status.Inspection.Equal(decimal.NewFromInt(2)) ||
		!wh.Status.Blocked.Equal(decimal.NewFromInt(1)) ||
		!wh.Status.Returned.Equal(decimal.NewFromInt(1)) {
		t.Errorf("status breakdown = %+v", wh.Status)
	}
	if !wh.Status.Total().Equal(decimal.NewFromInt(10)) {
		t.Errorf("status total = %s, want 10", wh.Status.Total())
	}
	// Both partitions carried rows that resolved to this warehouse.
	if wh.BoundPartitions != 2 {
		t.Errorf("BoundPartitions = %d, want 2", wh.BoundPartitions)
	}
	if len(wh.TopMaterials) != 2 {
		t.Errorf("TopMaterials = %d entries, want 2", len(wh.TopMaterials))
	}
}

func TestRollupSKUCountsPastDisplayCap(t *testing.T) {
	policy := engine.DefaultPolicy()
	b := engine.NewBuilder(policy)
	now := time.Now()

	// More distinct materials on one item than the display cap shows.
	ds := testDataset()
	distinct := policy.TopMaterials + 5
	for i := 0; i < distinct; i++ {
		ds.LocationRows = append(ds.LocationRows,
			locationRow("wms-east", "EA2A", fmt.Sprintf("MAT-%03d", i), "PAD-07", floatPtr(float64(i+1)), nil, now))
	}

	items := b.BuildItemSnapshots(ds)
	snap := itemByID(t, items, 101)
	if snap.SKUCount != distinct {
		t.Errorf("item SKUCount = %d, want %d", snap.SKUCount, distinct)
	}
	if len(snap.TopMaterials) != policy.TopMaterials {
		t.Errorf("TopMaterials = %d entries, want capped at %d", len(snap.TopMaterials), policy.TopMaterials)
	}

	zones := b.BuildZoneSnapshots(ds, items)
	if zones[0].SKUCount != distinct {
		t.Errorf("zone SKUCount = %d, want %d past the display cap", zones[0].SKUCount, distinct)
	}

	warehouses := b.BuildWarehouseSnapshots(ds, items, zones)
	if warehouses[0].SKUCount != distinct {
		t.Errorf("warehouse SKUCount = %d, want %d past the display cap", warehouses[0].SKUCount, distinct)
	}
	// The warehouse display list is capped, but its quantities come
	// from the full per-item material lines.
	if len(warehouses[0].TopMaterials) != policy.TopMaterials {
		t.Errorf("warehouse TopMaterials = %d entries, want capped at %d",
			len(warehouses[0].TopMaterials), policy.TopMaterials)
	}
	top := warehouses[0].TopMaterials[0]
	if !top.Quantity.Equal(decimal.NewFromInt(int64(distinct))) {
		t.Errorf("top warehouse material qty = %s, want %d", top.Quantity, distinct)
	}
}
