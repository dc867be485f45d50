package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/http/middleware"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// DoctorRegister creates a pending doctor account.
func DoctorRegister(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.DoctorRegistration
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		d, err := doctors.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "✅ Registration sent for approval. Please wait for admin confirmation.",
			"doctor":  d,
		})
	}
}

// DoctorDashboard shows the logged-in doctor's patients.
func DoctorDashboard(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dash, err := doctors.Dashboard(c.UserContext(), middleware.GetDoctor(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dash)
	}
}

// Availability suggests medicines for ?q=, in-stock first.
func Availability(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := doctors.Suggest(c.UserContext(), c.Query("q"))
		if err != nil {
			return respondError(c, err)
		}
		if list == nil {
			list = []service.Suggestion{}
		}
		return c.JSON(list)
	}
}

// PrescribeContext loads the patient and medicine list for the prescribe form.
func PrescribeContext(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pc, err := doctors.PrescribeContext(c.UserContext(), c.Params("uid"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(pc)
	}
}

// Prescribe saves a prescription written by the logged-in doctor.
func Prescribe(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.PrescriptionInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		rx, err := doctors.Prescribe(c.UserContext(), middleware.GetDoctor(c), c.Params("uid"), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rx)
	}
}

// PatientHistory lists a patient's prescriptions, newest first.
func PatientHistory(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h, err := doctors.History(c.UserContext(), c.Params("uid"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(h)
	}
}
