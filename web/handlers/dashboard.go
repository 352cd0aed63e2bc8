package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Jun0zo/SDS-Inventory-sub000/database"
	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardStats returns the cross-warehouse rollup. The snapshot is
// already cheap to read; the cache layer exists so a fleet of dashboard
// clients polling at once hits Redis instead of re-serializing.
func DashboardStats(c *fiber.Ctx) error {
	if Cache != nil {
		if cached, err := Cache.Get(context.Background(), dashboardCacheKey).Result(); err == nil {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	stats, err := Engine.Dashboard()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	if Cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := Cache.Set(context.Background(), dashboardCacheKey, payload, Cfg.Redis.CacheTTL).Err(); err != nil {
				log.Printf("Warning: could not cache dashboard stats: %v", err)
			}
		}
	}

	c.Set("X-Cache", "MISS")
	return c.JSON(stats)
}

// InvalidateDashboardCache drops the cached stats payload. Called after
// every successful refresh.
func InvalidateDashboardCache() {
	if Cache == nil {
		return
	}
	if err := Cache.Del(context.Background(), dashboardCacheKey).Err(); err != nil {
		log.Printf("Warning: could not invalidate dashboard cache: %v", err)
	}
}

// ExpiringItems lists current-batch lots whose validity date falls
// within the requested horizon (default 30 days)
func ExpiringItems(c *fiber.Ctx) error {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid days parameter")
		}
		days = parsed
	}

	items, err := database.ExpiringItems(database.GetDB(), days)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
		"days":  days,
	})
}

// UnboundPartitions surfaces the coverage gap from the dashboard
// snapshot: feed partitions with rows but no binding
func UnboundPartitions(c *fiber.Ctx) error {
	stats, err := Engine.Dashboard()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	keys := stats.UnboundPartitions
	if keys == nil {
		keys = []engine.BindingKey{}
	}
	return c.JSON(fiber.Map{
		"partitions": keys,
		"count":      len(keys),
	})
}
