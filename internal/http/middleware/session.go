package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// Locals keys set by the session guards.
const (
	ClaimsLocalKey = "session"
	DoctorLocalKey = "doctor"
)

var roleCookies = map[string]string{
	auth.RoleReception:  "reception_auth",
	auth.RoleDoctor:     "doctor_auth",
	auth.RolePharmacist: "pharma_auth",
	auth.RoleAdmin:      "admin_auth",
}

// CookieName is the session cookie of role.
func CookieName(role string) string {
	return roleCookies[role]
}

// SessionVerifier validates a session token for a role.
type SessionVerifier interface {
	Verify(token, role string) (*auth.Claims, error)
}

// DoctorAuthenticator loads the approved doctor behind a session.
type DoctorAuthenticator interface {
	Authenticate(ctx context.Context, id int64) (*model.Doctor, error)
}

// RequireRole rejects requests without a valid session cookie for role.
func RequireRole(v SessionVerifier, role string) fiber.Handler {
	cookie := CookieName(role)
	return func(c *fiber.Ctx) error {
		claims, err := v.Verify(c.Cookies(cookie), role)
		if err != nil {
			return abort(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// RequireDoctor additionally loads the doctor and requires approval.
func RequireDoctor(v SessionVerifier, doctors DoctorAuthenticator) fiber.Handler {
	cookie := CookieName(auth.RoleDoctor)
	return func(c *fiber.Ctx) error {
		claims, err := v.Verify(c.Cookies(cookie), auth.RoleDoctor)
		if err != nil {
			return abort(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		}
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return abort(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		}

		d, err := doctors.Authenticate(c.UserContext(), id)
		switch {
		case errors.Is(err, service.ErrNotApproved):
			return abort(c, fiber.StatusForbidden, "NOT_APPROVED", "Doctor not approved yet. Please contact admin.")
		case errors.Is(err, service.ErrInvalidCredentials):
			return abort(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		case err != nil:
			GetLogger(c).Error("doctor session lookup failed", zap.Int64("doctor_id", id), zap.Error(err))
			return abort(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Locals(ClaimsLocalKey, claims)
		c.Locals(DoctorLocalKey, d)
		return c.Next()
	}
}

// GetClaims returns the session claims stored by a guard.
func GetClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

// GetDoctor returns the doctor stored by RequireDoctor.
func GetDoctor(c *fiber.Ctx) *model.Doctor {
	d, _ := c.Locals(DoctorLocalKey).(*model.Doctor)
	return d
}

// abort writes the standard error envelope and stops the chain.
func abort(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"request_id": GetRequestID(c),
		"error":      fiber.Map{"code": code, "message": message},
	})
}
