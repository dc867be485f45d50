package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

func loginError(c *fiber.Ctx, err error, failure string) error {
	if errors.Is(err, service.ErrInvalidCredentials) {
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", failure)
	}
	return respondError(c, err)
}

// ReceptionLogin checks the configured reception account.
func ReceptionLogin(svc service.AuthService, ttl time.Duration) fiber.Handler {
	return Login(auth.RoleReception, ttl, func(c *fiber.Ctx, u, p string) (string, error) {
		return svc.LoginReception(c.UserContext(), u, p)
	}, "Invalid username or password")
}

// AdminLogin checks the configured admin account.
func AdminLogin(svc service.AuthService, ttl time.Duration) fiber.Handler {
	return Login(auth.RoleAdmin, ttl, func(c *fiber.Ctx, u, p string) (string, error) {
		return svc.LoginAdmin(c.UserContext(), u, p)
	}, "Invalid username or password")
}

// PharmacyLogin checks pharmacist users, then the fallback account.
func PharmacyLogin(svc service.AuthService, ttl time.Duration) fiber.Handler {
	return Login(auth.RolePharmacist, ttl, func(c *fiber.Ctx, u, p string) (string, error) {
		return svc.LoginPharmacist(c.UserContext(), u, p)
	}, "Invalid credentials")
}

// DoctorLogin requires an approved doctor account.
func DoctorLogin(doctors service.DoctorService, sessions SessionIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in credentials
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if strings.TrimSpace(in.Username) == "" || in.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Username and password required.")
		}

		d, err := doctors.Login(c.UserContext(), in.Username, in.Password)
		if err != nil {
			return loginError(c, err, "Invalid credentials.")
		}
		token, err := sessions.Issue(auth.RoleDoctor, strconv.FormatInt(d.ID, 10), d.Name)
		if err != nil {
			return respondError(c, err)
		}
		setSessionCookie(c, auth.RoleDoctor, token, sessions.TTL())
		return c.JSON(fiber.Map{"status": "ok", "role": auth.RoleDoctor, "doctor": d})
	}
}
