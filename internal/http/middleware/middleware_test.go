package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))

		resp, _ := app.Test(req)
		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "info", logData["level"])
}

func TestLogger_LevelsAndScopedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(zap.New(core)))

	app.Get("/boom", func(c *fiber.Ctx) error {
		GetLogger(c).Info("inside handler")
		return c.SendStatus(fiber.StatusInternalServerError)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	_, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "rid-1", inside[0].ContextMap()["request_id"])

	access := logs.FilterMessage("http request").All()
	require.Len(t, access, 2)
	assert.Equal(t, zap.ErrorLevel, access[0].Level)
	assert.Equal(t, zap.WarnLevel, access[1].Level)
	assert.Equal(t, int64(fiber.StatusNotFound), access[1].ContextMap()["status"])
}

func TestGetLogger_Default(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.NotNil(t, GetLogger(c))
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	app := fiber.New()
	app.Use(RequestID())
	app.Post("/otp", rl.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/otp", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if resp.StatusCode == fiber.StatusTooManyRequests {
			assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "RATE_LIMITED", body.Error.Code)
		}
	}
	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestRateLimiter_ResetsWhenFull(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	for i := 0; i < maxTrackedLimiters; i++ {
		rl.limiter("10.0.0." + strconv.Itoa(i))
	}
	rl.limiter("overflow")
	assert.Len(t, rl.limiters, 1)
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) Verify(token, role string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != "good" || role != s.claims.Role {
		return nil, auth.ErrInvalidToken
	}
	return s.claims, nil
}

type stubDoctors struct {
	doctor *model.Doctor
	err    error
}

func (s stubDoctors) Authenticate(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.doctor, s.err
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestRequireRole(t *testing.T) {
	v := stubVerifier{claims: &auth.Claims{Role: auth.RoleReception, Name: "reception"}}
	app := fiber.New()
	app.Get("/reception", RequireRole(v, auth.RoleReception), func(c *fiber.Ctx) error {
		return c.SendString(GetClaims(c).Name)
	})

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"missing cookie", "", fiber.StatusUnauthorized},
		{"bad token", "forged", fiber.StatusUnauthorized},
		{"valid session", "good", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/reception", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName(auth.RoleReception), Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == fiber.StatusUnauthorized {
				assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
			}
		})
	}
}

func TestRequireDoctor(t *testing.T) {
	claims := &auth.Claims{
		Role:             auth.RoleDoctor,
		Name:             "Dr. Rao",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}

	tests := []struct {
		name     string
		claims   *auth.Claims
		doctors  stubDoctors
		want     int
		wantCode string
	}{
		{"approved", claims, stubDoctors{doctor: &model.Doctor{ID: 7, Name: "Dr. Rao"}}, fiber.StatusOK, ""},
		{"pending approval", claims, stubDoctors{err: service.ErrNotApproved}, fiber.StatusForbidden, "NOT_APPROVED"},
		{"doctor removed", claims, stubDoctors{err: service.ErrInvalidCredentials}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"lookup failure", claims, stubDoctors{err: errors.New("db down")}, fiber.StatusInternalServerError, "INTERNAL_ERROR"},
		{
			"non numeric subject",
			&auth.Claims{Role: auth.RoleDoctor, RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}},
			stubDoctors{},
			fiber.StatusUnauthorized,
			"UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/doctor", RequireDoctor(stubVerifier{claims: tt.claims}, tt.doctors), func(c *fiber.Ctx) error {
				return c.SendString(GetDoctor(c).Name)
			})

			req := httptest.NewRequest("GET", "/doctor", nil)
			req.AddCookie(&http.Cookie{Name: CookieName(auth.RoleDoctor), Value: "good"})
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, resp))
			}
		})
	}
}
