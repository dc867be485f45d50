package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// ReportSummary summarizes sales for ?range=daily (default) or monthly.
func ReportSummary(reports service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := reports.Summary(c.UserContext(), c.Query("range", service.RangeDaily))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(s)
	}
}
