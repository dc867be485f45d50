package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// DeletePatient removes a patient. Unknown ids are not an error.
func DeletePatient(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := patients.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListDoctors lists doctors, optionally filtered by ?status=.
func ListDoctors(doctors service.DoctorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := c.Query("status")
		list, err := doctors.List(c.UserContext(), status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"status": status, "doctors": list})
	}
}

func doctorDecision(decide func(c *fiber.Ctx, id int64) error, status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := decide(c, id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"id": id, "status": status})
	}
}

// ApproveDoctor lets a registered doctor log in.
func ApproveDoctor(doctors service.DoctorService) fiber.Handler {
	return doctorDecision(func(c *fiber.Ctx, id int64) error {
		return doctors.Approve(c.UserContext(), id)
	}, model.DoctorApproved)
}

// RejectDoctor marks a registration as rejected.
func RejectDoctor(doctors service.DoctorService) fiber.Handler {
	return doctorDecision(func(c *fiber.Ctx, id int64) error {
		return doctors.Reject(c.UserContext(), id)
	}, model.DoctorRejected)
}
