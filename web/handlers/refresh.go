package handlers

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Jun0zo/SDS-Inventory-sub000/database"
	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// TriggerRefresh rebuilds every snapshot now and returns the structured
// report. Per-snapshot failures are in the report, not an HTTP error;
// only a dataset load failure fails the request.
func TriggerRefresh(c *fiber.Ctx) error {
	report, err := Engine.Refresh()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	RecordRefresh(models.RefreshTriggerManual, report)
	InvalidateDashboardCache()

	status := fiber.StatusOK
	if report.Failed > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(report)
}

// RecordRefresh persists one refresh pass to the audit log. Logging
// failures are not allowed to fail the refresh itself.
func RecordRefresh(trigger string, report *engine.RefreshReport) {
	detail, err := json.Marshal(report.Results)
	if err != nil {
		detail = []byte("[]")
	}

	entry := models.RefreshLog{
		Trigger:    trigger,
		Attempted:  report.Attempted,
		Succeeded:  report.Succeeded,
		Failed:     report.Failed,
		Detail:     string(detail),
		DurationMs: report.Duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Printf("Warning: could not record refresh log: %v", err)
	}
}

// RefreshHistory lists recent refresh passes, newest first
func RefreshHistory(c *fiber.Ctx) error {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit parameter")
		}
		limit = parsed
	}

	var logs []models.RefreshLog
	if err := database.GetDB().Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"refreshes": logs,
		"count":     len(logs),
	})
}
