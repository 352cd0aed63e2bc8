package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

// ZoneCapacityList returns the per-zone capacity snapshot
func ZoneCapacityList(c *fiber.Ctx) error {
	zones, err := Engine.ZoneSnapshots()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(fiber.Map{
		"zones": zones,
		"count": len(zones),
	})
}

// ZoneCapacityByCode returns one zone's snapshot, matched by normalized
// zone code so "EA2-A" and "ea2a" address the same zone
func ZoneCapacityByCode(c *fiber.Ctx) error {
	want := engine.NormalizeCode(c.Params("code"))
	zones, err := Engine.ZoneSnapshots()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	for i := range zones {
		if engine.NormalizeCode(zones[i].ZoneCode) == want {
			return c.JSON(zones[i])
		}
	}
	return fiber.NewError(fiber.StatusNotFound, "zone not found")
}

// ItemSnapshotByID returns one storage item's snapshot, including its
// full contributing-row list
func ItemSnapshotByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}
	items, err := Engine.ItemSnapshots()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	for i := range items {
		if items[i].ItemID == uint(id) {
			return c.JSON(items[i])
		}
	}
	return fiber.NewError(fiber.StatusNotFound, "item not found")
}

// ItemSnapshotList returns every storage item's snapshot without the
// contributing rows, which get heavy across a whole warehouse
func ItemSnapshotList(c *fiber.Ctx) error {
	items, err := Engine.ItemSnapshots()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	slim := make([]engine.ItemSnapshot, len(items))
	for i := range items {
		slim[i] = items[i]
		slim[i].Rows = nil
	}
	return c.JSON(fiber.Map{
		"items": slim,
		"count": len(slim),
	})
}

// WarehouseSummaryByCode returns one warehouse's rollup across both feeds
func WarehouseSummaryByCode(c *fiber.Ctx) error {
	want := engine.NormalizeCode(c.Params("code"))
	warehouses, err := Engine.WarehouseSnapshots()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	for i := range warehouses {
		if engine.NormalizeCode(warehouses[i].WarehouseCode) == want {
			return c.JSON(warehouses[i])
		}
	}
	return fiber.NewError(fiber.StatusNotFound, "warehouse not found")
}

// DiscrepancyList returns the current top-N cross-feed discrepancy list.
// The cap is an explicit truncation; the response says so.
func DiscrepancyList(c *fiber.Ctx) error {
	list, err := Engine.Discrepancies()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	severity := c.Query("severity")
	if severity != "" {
		filtered := make([]engine.Discrepancy, 0, len(list))
		for i := range list {
			if list[i].Severity == severity {
				filtered = append(filtered, list[i])
			}
		}
		list = filtered
	}

	return c.JSON(fiber.Map{
		"discrepancies": list,
		"count":         len(list),
		"truncated_at":  Engine.Policy().DiscrepancyTopN,
	})
}

// SnapshotVersions reports the installed version of every snapshot, for
// operators checking refresh health
func SnapshotVersions(c *fiber.Ctx) error {
	store := Engine.Store()
	out := fiber.Map{}
	for _, name := range store.Names() {
		if snap, ok := store.Get(name); ok {
			out[name] = fiber.Map{
				"version":  snap.Version,
				"built_at": snap.BuiltAt,
			}
		}
	}
	return c.JSON(out)
}
