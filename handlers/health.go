package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/database"
)

// HandleCheckHealth reports service liveness and database reachability
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "ok"
		dbStatus := "ok"
		if err := store.HealthCheck(); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
		return c.JSON(fiber.Map{
			"status":   status,
			"database": dbStatus,
		})
	}
}
