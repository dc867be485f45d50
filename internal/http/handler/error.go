package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/http/middleware"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{service.ErrPatientNotFound, fiber.StatusNotFound, "NOT_FOUND", "Patient not found"},
	{service.ErrDoctorNotFound, fiber.StatusNotFound, "NOT_FOUND", "Doctor not found"},
	{service.ErrDispenseNotFound, fiber.StatusNotFound, "NOT_FOUND", "Dispense not found."},
	{service.ErrUnknownQR, fiber.StatusNotFound, "UNKNOWN_QR", "❌ Invalid or unknown QR code."},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials."},
	{service.ErrNotApproved, fiber.StatusForbidden, "NOT_APPROVED", "Your account is pending approval."},
	{service.ErrImportExpired, fiber.StatusGone, "IMPORT_EXPIRED", "Import session expired. Please re-upload the CSV."},
	{service.ErrNotCSV, fiber.StatusBadRequest, "NOT_CSV", "Please upload a CSV file."},
	{service.ErrEmptyDispense, fiber.StatusBadRequest, "EMPTY_DISPENSE", "No medicines selected to dispense."},
	{service.ErrInvalidShareToken, fiber.StatusBadRequest, "INVALID_LINK", "Invalid link."},
	{service.ErrShareSignature, fiber.StatusForbidden, "INVALID_LINK", "Invalid or expired link."},
	{service.ErrOCRUnavailable, fiber.StatusServiceUnavailable, "OCR_UNAVAILABLE", "Prescription scanning is not available."},
	{fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded file is too large."},
	{service.ErrOTPMissing, fiber.StatusBadRequest, "OTP_MISSING", "No OTP found. Please request again."},
	{service.ErrOTPExpired, fiber.StatusBadRequest, "OTP_EXPIRED", "OTP expired. Please resend."},
	{service.ErrOTPInvalid, fiber.StatusBadRequest, "OTP_INVALID", "Invalid OTP. Please try again."},
}

// respondError translates service errors into the error envelope.
// Unknown errors are logged and reported as 500.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := service.IsValidation(err); ok {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, m.message)
		}
	}

	middleware.GetLogger(c).Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			if status >= fiber.StatusInternalServerError {
				middleware.GetLogger(c).Error("unhandled error", zap.Error(err))
			}
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
