package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/http/middleware"
)

// SessionIssuer signs role session tokens.
type SessionIssuer interface {
	Issue(role, subject, name string) (string, error)
	TTL() time.Duration
}

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func setSessionCookie(c *fiber.Ctx, role, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName(role),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, role string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName(role),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// loginFunc checks credentials and returns a signed session token.
type loginFunc func(c *fiber.Ctx, username, password string) (string, error)

// Login binds credentials, runs login and sets the role cookie.
// failure is the message shown for bad credentials.
func Login(role string, ttl time.Duration, login loginFunc, failure string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in credentials
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		token, err := login(c, in.Username, in.Password)
		if err != nil {
			return loginError(c, err, failure)
		}
		setSessionCookie(c, role, token, ttl)
		return c.JSON(fiber.Map{"status": "ok", "role": role})
	}
}

// Logout clears the role cookie.
func Logout(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clearSessionCookie(c, role)
		return c.JSON(fiber.Map{"status": "logged_out"})
	}
}
