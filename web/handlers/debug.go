package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jun0zo/SDS-Inventory-sub000/database"
)

// GetSQLLogs returns recent SQL queries for debugging
func GetSQLLogs(c *fiber.Ctx) error {
	queries := database.SQLLogger.GetQueries()
	return c.JSON(fiber.Map{
		"queries": queries,
		"count":   len(queries),
	})
}

// ClearSQLLogs clears the SQL query log
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.JSON(fiber.Map{
		"message": "SQL logs cleared",
	})
}
