package engine_test

import (
	"testing"
	"time"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

func TestEngineRefreshAndQuery(t *testing.T) {
	ds := testDataset()
	now := time.Now()
	ds.LocationRows = append(ds.LocationRows,
		locationRow("wms-east", "EA2A", "MAT-001", "A35-01-01", floatPtr(5), strPtr("L1"), now),
		locationRow("wms-unbound", "X", "MAT-001", "A35-01-02", floatPtr(5), nil, now),
	)

	eng := engine.New(&staticSource{ds: ds}, engine.DefaultPolicy())

	if _, err := eng.ItemSnapshots(); err == nil {
		t.Fatal("queries before first refresh should fail")
	}

	report, err := eng.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if report.Attempted != 5 || report.Failed != 0 {
		t.Fatalf("report = %+v, want all five snapshots built", report)
	}

	items, err := eng.ItemSnapshots()
	if err != nil {
		t.Fatalf("ItemSnapshots: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %d, want one per storage item", len(items))
	}

	zones, err := eng.ZoneSnapshots()
	if err != nil {
		t.Fatalf("ZoneSnapshots: %v", err)
	}
	if len(zones) != 1 || zones[0].OccupiedCount != 1 {
		t.Errorf("zones = %+v, want single zone with one occupant", zones)
	}

	warehouses, err := eng.WarehouseSnapshots()
	if err != nil {
		t.Fatalf("WarehouseSnapshots: %v", err)
	}
	if len(warehouses) != 1 {
		t.Errorf("warehouses = %d, want 1", len(warehouses))
	}

	stats, err := eng.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.Warehouses != 1 || stats.Zones != 1 || stats.Items != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.UnboundPartitions) != 1 || stats.UnboundPartitions[0].SourceID != "wms-unbound" {
		t.Errorf("UnboundPartitions = %+v, want wms-unbound", stats.UnboundPartitions)
	}

	// A second refresh bumps every snapshot version.
	if _, err := eng.Refresh(); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	snap, ok := eng.Store().Get(engine.SnapshotItems)
	if !ok || snap.Version != 2 {
		t.Errorf("items snapshot version = %+v, want 2", snap)
	}
}
