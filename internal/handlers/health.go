package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

// HealthCheck reports the status of each dependency. Any failing dependency
// turns the response into a 503.
func HealthCheck(deps map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services := fiber.Map{}
		status := fiber.StatusOK
		for name, ping := range deps {
			if err := ping(c.UserContext()); err != nil {
				services[name] = "unavailable"
				status = fiber.StatusServiceUnavailable
				continue
			}
			services[name] = "connected"
		}

		overall := "ok"
		if status != fiber.StatusOK {
			overall = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   overall,
			"version":  "1.0.0",
			"services": services,
		})
	}
}
