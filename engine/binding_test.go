package engine_test

import (
	"testing"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

func strPtr(s string) *string { return &s }

func TestBindingResolver(t *testing.T) {
	warehouses := []models.Warehouse{
		{WarehouseID: 1, WarehouseCode: "WH-EA"},
		{WarehouseID: 2, WarehouseCode: "WH-WB"},
	}
	bindings := []models.SourceBinding{
		{WarehouseID: 1, SourceID: "wms-east", SplitValue: strPtr("EA2A"), FeedType: models.FeedTypeLocation, ZoneCode: "EA2-A"},
		{WarehouseID: 1, SourceID: "sap-2100", FeedType: models.FeedTypeStatus, ZoneCode: "EA2-A"},
		{WarehouseID: 2, SourceID: "wms-west", SplitValue: strPtr("WB1"), FeedType: models.FeedTypeLocation, ZoneCode: "WB-1"},
	}

	r := engine.NewBindingResolver(bindings, warehouses)

	t.Run("resolves split partition", func(t *testing.T) {
		b, ok := r.Resolve("wms-east", strPtr("EA2A"))
		if !ok {
			t.Fatal("expected binding")
		}
		if b.WarehouseID != 1 || b.WarehouseCode != "WH-EA" || b.FeedType != models.FeedTypeLocation {
			t.Errorf("unexpected binding: %+v", b)
		}
	})

	t.Run("nil split matches binding without split", func(t *testing.T) {
		b, ok := r.Resolve("sap-2100", nil)
		if !ok {
			t.Fatal("expected binding")
		}
		if b.FeedType != models.FeedTypeStatus {
			t.Errorf("unexpected feed type %q", b.FeedType)
		}
	})

	t.Run("unknown partition is excluded", func(t *testing.T) {
		if _, ok := r.Resolve("wms-south", nil); ok {
			t.Error("unbound partition must not resolve")
		}
	})

	t.Run("split value distinguishes partitions", func(t *testing.T) {
		if _, ok := r.Resolve("wms-east", strPtr("EA2B")); ok {
			t.Error("different split value must not resolve")
		}
		if _, ok := r.Resolve("wms-east", nil); ok {
			t.Error("missing split value must not resolve a split binding")
		}
	})
}

func TestBindingCoversZone(t *testing.T) {
	b := engine.Binding{ZoneCode: "EA2-A"}

	if !b.CoversZone("ea2a") {
		t.Error("zone comparison should be normalized")
	}
	if !b.CoversZone(" EA2A ") {
		t.Error("zone comparison should trim whitespace")
	}
	if b.CoversZone("EA2-B") {
		t.Error("different zone must not be covered")
	}
}
