package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// discrepancyBindings maps the "LOC" split to the location feed and
// the "STAT" split to the status feed for the wms-east source.
func discrepancyBindings() []models.SourceBinding {
	return []models.SourceBinding{
		{WarehouseID: 1, SourceID: "wms-east", SplitValue: strPtr("LOC"), FeedType: models.FeedTypeLocation, ZoneCode: "EA2-A"},
		{WarehouseID: 1, SourceID: "wms-east", SplitValue: strPtr("STAT"), FeedType: models.FeedTypeStatus, ZoneCode: "EA2-A"},
	}
}

func discrepancyDataset(locQty, statQty float64) *engine.Dataset {
	now := time.Now()
	ds := &engine.Dataset{Bindings: discrepancyBindings()}
	if locQty > 0 {
		ds.LocationRows = append(ds.LocationRows, models.LocationRow{
			SourceID:     "wms-east",
			SplitKey:     strPtr("LOC"),
			ItemCode:     "MAT-001",
			CellNo:       "A35-01-01",
			LotNo:        strPtr("L1"),
			AvailableQty: floatPtr(locQty),
			FetchedAt:    now,
			BatchID:      "b1",
		})
	}
	if statQty > 0 {
		ds.StatusRows = append(ds.StatusRows, models.StatusRow{
			SourceID:        "wms-east",
			SplitKey:        strPtr("STAT"),
			ItemCode:        "MAT-001",
			Batch:           strPtr("L1"),
			UnrestrictedQty: statQty,
			FetchedAt:       now,
			BatchID:         "b1",
		})
	}
	return ds
}

func TestDetectSignedDifferenceAndSeverity(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())

	list := d.Detect(discrepancyDataset(50, 53))
	if len(list) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(list))
	}
	got := list[0]
	if !got.Difference.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Difference = %s, want 3", got.Difference)
	}
	if got.Severity != engine.SeverityMinor {
		t.Errorf("Severity = %q, want minor", got.Severity)
	}
	if got.PercentDiff != 6.0 {
		t.Errorf("PercentDiff = %v, want 6.0", got.PercentDiff)
	}
}

func TestDetectStatusOnlyLine(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())

	list := d.Detect(discrepancyDataset(0, 10))
	if len(list) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(list))
	}
	got := list[0]
	if got.PercentDiff != 100.0 {
		t.Errorf("PercentDiff = %v, want flat 100.0", got.PercentDiff)
	}
	// abs diff 10 falls in [10, 100)
	if got.Severity != engine.SeverityModerate {
		t.Errorf("Severity = %q, want moderate", got.Severity)
	}
}

func TestDetectSeverityBuckets(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())

	tests := []struct {
		loc, stat float64
		want      string
	}{
		{40, 40, engine.SeverityMatch},
		{40, 49, engine.SeverityMinor},
		{40, 50, engine.SeverityModerate},
		{40, 139, engine.SeverityModerate},
		{40, 140, engine.SeverityHigh},
		{40, 1039, engine.SeverityHigh},
		{40, 1040, engine.SeverityCritical},
		{50, 40, engine.SeverityModerate},
	}

	for _, tt := range tests {
		list := d.Detect(discrepancyDataset(tt.loc, tt.stat))
		if len(list) != 1 {
			t.Fatalf("loc=%v stat=%v: got %d discrepancies", tt.loc, tt.stat, len(list))
		}
		if list[0].Severity != tt.want {
			t.Errorf("loc=%v stat=%v: Severity = %q, want %q",
				tt.loc, tt.stat, list[0].Severity, tt.want)
		}
	}
}

func TestDetectNegativeDifference(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())

	list := d.Detect(discrepancyDataset(53, 50))
	if len(list) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(list))
	}
	if !list[0].Difference.Equal(decimal.NewFromInt(-3)) {
		t.Errorf("Difference = %s, want -3", list[0].Difference)
	}
	if list[0].PercentDiff != -5.66 {
		t.Errorf("PercentDiff = %v, want -5.66", list[0].PercentDiff)
	}
}

func TestDetectSortsAndTruncates(t *testing.T) {
	policy := engine.DefaultPolicy()
	policy.DiscrepancyTopN = 2
	d := engine.NewDetector(policy)

	now := time.Now()
	ds := &engine.Dataset{Bindings: discrepancyBindings()}
	for i, qty := range []float64{5, 50, 500} {
		item := string(rune('A' + i))
		ds.StatusRows = append(ds.StatusRows, models.StatusRow{
			SourceID:        "wms-east",
			SplitKey:        strPtr("STAT"),
			ItemCode:        item,
			UnrestrictedQty: qty,
			FetchedAt:       now,
			BatchID:         "b1",
		})
	}

	list := d.Detect(ds)
	if len(list) != 2 {
		t.Fatalf("got %d discrepancies, want top 2", len(list))
	}
	if !list[0].Difference.Abs().GreaterThan(list[1].Difference.Abs()) {
		t.Errorf("not sorted by absolute difference: %s then %s",
			list[0].Difference, list[1].Difference)
	}
	if !list[0].Difference.Equal(decimal.NewFromInt(500)) {
		t.Errorf("top difference = %s, want 500", list[0].Difference)
	}
}

func TestDetectAggregatesByLineKey(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())
	now := time.Now()

	// Two location rows for the same (source, item, lot) aggregate
	// before comparison; a different lot is its own line.
	ds := &engine.Dataset{
		Bindings: discrepancyBindings(),
		LocationRows: []models.LocationRow{
			{SourceID: "wms-east", SplitKey: strPtr("LOC"), ItemCode: "MAT-001", CellNo: "A35-01-01", LotNo: strPtr("L1"), AvailableQty: floatPtr(20), FetchedAt: now, BatchID: "b1"},
			{SourceID: "wms-east", SplitKey: strPtr("LOC"), ItemCode: "MAT-001", CellNo: "A35-01-02", LotNo: strPtr("L1"), AvailableQty: floatPtr(30), FetchedAt: now, BatchID: "b1"},
			{SourceID: "wms-east", SplitKey: strPtr("LOC"), ItemCode: "MAT-001", CellNo: "A35-02-01", LotNo: strPtr("L2"), AvailableQty: floatPtr(5), FetchedAt: now, BatchID: "b1"},
		},
		StatusRows: []models.StatusRow{
			{SourceID: "wms-east", SplitKey: strPtr("STAT"), ItemCode: "MAT-001", Batch: strPtr("L1"), UnrestrictedQty: 50, FetchedAt: now, BatchID: "b1"},
		},
	}

	list := d.Detect(ds)
	if len(list) != 2 {
		t.Fatalf("got %d discrepancies, want 2 lines", len(list))
	}

	bySeverity := map[string]engine.Discrepancy{}
	for _, disc := range list {
		bySeverity[disc.LotKey] = disc
	}
	if l1 := bySeverity["L1"]; !l1.Difference.IsZero() || l1.Severity != engine.SeverityMatch {
		t.Errorf("L1 = %+v, want exact match", l1)
	}
	if l2 := bySeverity["L2"]; !l2.Difference.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("L2 difference = %s, want -5", l2.Difference)
	}
}

func TestDetectExcludesUnboundPartitions(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())
	now := time.Now()

	// No bindings at all: neither feed's rows may reach the totals.
	ds := &engine.Dataset{
		LocationRows: []models.LocationRow{
			{SourceID: "wms-unknown", ItemCode: "MAT-001", CellNo: "A35-01-01", AvailableQty: floatPtr(10), FetchedAt: now, BatchID: "b1"},
		},
		StatusRows: []models.StatusRow{
			{SourceID: "sap-unknown", ItemCode: "MAT-001", UnrestrictedQty: 25, FetchedAt: now, BatchID: "b1"},
		},
	}

	if list := d.Detect(ds); len(list) != 0 {
		t.Errorf("got %d discrepancies from unbound partitions, want 0: %+v", len(list), list)
	}
}

func TestDetectExcludesWrongFeedTypeBinding(t *testing.T) {
	d := engine.NewDetector(engine.DefaultPolicy())
	now := time.Now()

	// The partition is bound, but as the status feed; its location
	// rows are still excluded.
	ds := &engine.Dataset{
		Bindings: []models.SourceBinding{
			{WarehouseID: 1, SourceID: "wms-east", FeedType: models.FeedTypeStatus, ZoneCode: "EA2-A"},
		},
		LocationRows: []models.LocationRow{
			{SourceID: "wms-east", ItemCode: "MAT-001", CellNo: "A35-01-01", AvailableQty: floatPtr(10), FetchedAt: now, BatchID: "b1"},
		},
	}

	if list := d.Detect(ds); len(list) != 0 {
		t.Errorf("got %d discrepancies through a status-feed binding, want 0: %+v", len(list), list)
	}
}
