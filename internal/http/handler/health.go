package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

// Root sends visitors to the portal selector.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Redirect("/portal", fiber.StatusTemporaryRedirect)
	}
}

// Portal lists the entry points of each desk.
func Portal(hospitalName string) fiber.Handler {
	portals := []fiber.Map{
		{"name": "Reception", "login": "/reception/login"},
		{"name": "Doctor", "login": "/doctor/login", "register": "/doctor/register"},
		{"name": "PharmaDesk", "login": "/pharmadesk/login"},
		{"name": "Admin", "login": "/admin/login"},
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"title":    "Smart QR Health Portal",
			"hospital": hospitalName,
			"portals":  portals,
		})
	}
}

// Health reports the service name and version.
func Health(serviceName, version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": serviceName, "version": version})
	}
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// DBHealth always answers 200 and reports the ping result in the body.
func DBHealth(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(fiber.Map{"database": "error", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"database": "ok", "error": nil})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
