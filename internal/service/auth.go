package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/config"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// AuthService issues role sessions for staff whose credentials are not doctor accounts.
type AuthService interface {
	LoginReception(ctx context.Context, username, password string) (string, error)
	LoginAdmin(ctx context.Context, username, password string) (string, error)

	// LoginPharmacist checks the users table first, then the configured fallback account.
	LoginPharmacist(ctx context.Context, username, password string) (string, error)

	// Verify validates a session token for role.
	Verify(token, role string) (*auth.Claims, error)
}

type authService struct {
	sessions *auth.SessionManager
	users    repository.UserRepository
	cfg      config.AuthConfig
	log      *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(sessions *auth.SessionManager, users repository.UserRepository, cfg config.AuthConfig, log *zap.Logger) AuthService {
	return &authService{sessions: sessions, users: users, cfg: cfg, log: log}
}

func (s *authService) LoginReception(ctx context.Context, username, password string) (string, error) {
	if !matchConfigured(username, password, s.cfg.ReceptionUsername, s.cfg.ReceptionPassword) {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Issue(auth.RoleReception, s.cfg.ReceptionUsername, "")
}

func (s *authService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	if !matchConfigured(username, password, s.cfg.AdminUsername, s.cfg.AdminPassword) {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Issue(auth.RoleAdmin, s.cfg.AdminUsername, "")
}

func (s *authService) LoginPharmacist(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if auth.VerifyPassword(password, u.PasswordHash) {
			return s.sessions.Issue(auth.RolePharmacist, u.Username, "")
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		// A broken users table must not lock out the fallback account.
		s.log.Warn("pharmacist lookup failed", zap.Error(err))
	}

	if matchConfigured(username, password, s.cfg.PharmacyUsername, s.cfg.PharmacyPassword) {
		return s.sessions.Issue(auth.RolePharmacist, s.cfg.PharmacyUsername, "")
	}
	return "", ErrInvalidCredentials
}

func (s *authService) Verify(token, role string) (*auth.Claims, error) {
	return s.sessions.Parse(token, role)
}

// matchConfigured compares credentials in constant time. An unset password disables the account.
func matchConfigured(username, password, wantUser, wantPassword string) bool {
	if wantUser == "" || wantPassword == "" {
		return false
	}
	u := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(wantUser))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(wantPassword))
	return u&p == 1
}
