package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// PatientDashboard lists patients grouped by registration day.
func PatientDashboard(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dash, err := patients.Dashboard(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dash)
	}
}

// ApprovedDoctors lists doctors patients can be assigned to.
func ApprovedDoctors(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doctors, err := patients.ApprovedDoctors(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"doctors": doctors})
	}
}

// RegisterPatient registers a patient, saves its QR code and records the payment.
func RegisterPatient(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegistrationInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		res, err := patients.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		c.Location(res.PreviewURL)
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// QRPreview returns the printable QR slip of a patient.
func QRPreview(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := patients.QRPreview(c.UserContext(), c.Params("uid"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// GetPatient loads a patient for editing.
func GetPatient(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := patients.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdatePatient edits a patient's contact details.
func UpdatePatient(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var u model.PatientUpdate
		if err := c.BodyParser(&u); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		p, err := patients.Update(c.UserContext(), id, u)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// SendReceptionOTP issues a short-lived code for phone verification at the desk.
func SendReceptionOTP(otp service.OTPService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in otpRequest
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if err := otp.SendReception(c.UserContext(), in.Phone); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "OTP sent successfully to " + strings.TrimSpace(in.Phone)})
	}
}

// VerifyReceptionOTP consumes a code issued by SendReceptionOTP.
func VerifyReceptionOTP(otp service.OTPService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in otpRequest
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if err := otp.VerifyReception(c.UserContext(), in.Phone, in.OTP); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "OTP verified successfully"})
	}
}

type exportFunc func(c *fiber.Ctx) (*service.Export, error)

func sendExport(export exportFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := export(c)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, e.Filename))
		return c.Send(e.Data)
	}
}

// ExportPatients downloads all patients as CSV.
func ExportPatients(patients service.PatientService) fiber.Handler {
	return sendExport(func(c *fiber.Ctx) (*service.Export, error) {
		return patients.ExportPatients(c.UserContext())
	})
}

// ExportPayments downloads all registration payments as CSV.
func ExportPayments(patients service.PatientService) fiber.Handler {
	return sendExport(func(c *fiber.Ctx) (*service.Export, error) {
		return patients.ExportPayments(c.UserContext())
	})
}
