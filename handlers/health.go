package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/database"
	"github.com/mbacke/orienta-api/utils/response"
)

// HandleCheckHealth returns a handler that reports service and database
// health.
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable", "SERVICE_UNAVAILABLE")
		}
		return response.Success(c, fiber.Map{
			"status": "ok",
		})
	}
}
