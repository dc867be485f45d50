package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/service"
)

type otpRequest struct {
	Phone string `json:"phone" form:"phone"`
	OTP   string `json:"otp" form:"otp"`
}

// PublicCard shows what a scanned patient QR code resolves to.
func PublicCard(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		card, err := patients.PublicCard(c.UserContext(), c.Params("uid"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(card)
	}
}

// QRImage renders the QR code PNG for a patient uid.
func QRImage(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := strings.TrimSpace(c.Params("uid"))
		if uid == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UID", "invalid uid")
		}
		png, err := patients.QRImage(c.UserContext(), uid)
		if err != nil {
			return respondError(c, err)
		}
		c.Type("png")
		return c.Send(png)
	}
}

// StoredQR streams a QR image saved at registration.
func StoredQR(patients service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := patients.StoredQR(c.UserContext(), c.Params("file"))
		if err != nil {
			return respondError(c, err)
		}
		ct := info.ContentType
		if ct == "" {
			ct = "image/png"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, size)
	}
}

// SendPublicOTP issues a one-time code for the patient-facing flow.
func SendPublicOTP(otp service.OTPService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in otpRequest
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if err := otp.SendPublic(c.UserContext(), in.Phone); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"phone": strings.TrimSpace(in.Phone), "message": "OTP sent successfully!"})
	}
}

// VerifyPublicOTP checks a code issued by SendPublicOTP.
func VerifyPublicOTP(otp service.OTPService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in otpRequest
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		ok, err := otp.VerifyPublic(c.UserContext(), in.Phone, in.OTP)
		if err != nil {
			return respondError(c, err)
		}
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "OTP_INVALID", "Invalid OTP. Try again!")
		}
		return c.JSON(fiber.Map{"verified": true, "phone": strings.TrimSpace(in.Phone)})
	}
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
