package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Jun0zo/SDS-Inventory-sub000/database"
	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// BindingPayload is one source binding in a warehouse's binding set.
type BindingPayload struct {
	SourceID   string  `json:"source_id"`
	SplitValue *string `json:"split_value"`
	FeedType   string  `json:"feed_type"`
	ZoneCode   string  `json:"zone_code"`
}

// ListBindings returns a warehouse's configured source bindings
func ListBindings(c *fiber.Ctx) error {
	warehouse, err := warehouseByCode(c.Params("code"))
	if err != nil {
		return err
	}

	var bindings []models.SourceBinding
	if err := database.GetDB().Where("warehouse_id = ?", warehouse.WarehouseID).Find(&bindings).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"warehouse_code": warehouse.WarehouseCode,
		"bindings":       bindings,
		"count":          len(bindings),
	})
}

// ReplaceBindings replaces a warehouse's binding set. Exclusivity is
// enforced here, at write time: a (source, split) pair already bound to
// another warehouse rejects the whole request.
func ReplaceBindings(c *fiber.Ctx) error {
	warehouse, err := warehouseByCode(c.Params("code"))
	if err != nil {
		return err
	}

	var payloads []BindingPayload
	if err := c.BodyParser(&payloads); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	seen := make(map[engine.BindingKey]bool, len(payloads))
	for i, p := range payloads {
		if p.SourceID == "" {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("binding %d: source_id is required", i))
		}
		if p.FeedType != models.FeedTypeLocation && p.FeedType != models.FeedTypeStatus {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("binding %d: feed_type must be 'location' or 'status'", i))
		}
		if p.ZoneCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("binding %d: zone_code is required", i))
		}
		key := engine.BindingKey{SourceID: p.SourceID}
		if p.SplitValue != nil {
			key.SplitValue = *p.SplitValue
		}
		if seen[key] {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("binding %d: duplicate source/split pair in request", i))
		}
		seen[key] = true
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, p := range payloads {
			var count int64
			q := tx.Model(&models.SourceBinding{}).
				Where("warehouse_id <> ? AND source_id = ?", warehouse.WarehouseID, p.SourceID)
			if p.SplitValue == nil {
				q = q.Where("split_value IS NULL")
			} else {
				q = q.Where("split_value = ?", *p.SplitValue)
			}
			if err := q.Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("source %q split %v is already bound to another warehouse", p.SourceID, p.SplitValue)
			}
		}

		if err := tx.Where("warehouse_id = ?", warehouse.WarehouseID).Delete(&models.SourceBinding{}).Error; err != nil {
			return err
		}
		for _, p := range payloads {
			binding := models.SourceBinding{
				WarehouseID: warehouse.WarehouseID,
				SourceID:    p.SourceID,
				SplitValue:  p.SplitValue,
				FeedType:    p.FeedType,
				ZoneCode:    p.ZoneCode,
			}
			if err := tx.Create(&binding).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	if Notifier != nil {
		Notifier.MarkDirty()
	}
	return c.JSON(fiber.Map{
		"warehouse_code": warehouse.WarehouseCode,
		"count":          len(payloads),
	})
}

func warehouseByCode(code string) (*models.Warehouse, error) {
	want := engine.NormalizeCode(code)
	var warehouses []models.Warehouse
	if err := database.GetDB().Find(&warehouses).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	for i := range warehouses {
		if engine.NormalizeCode(warehouses[i].WarehouseCode) == want {
			return &warehouses[i], nil
		}
	}
	return nil, fiber.NewError(fiber.StatusNotFound, "warehouse not found")
}
