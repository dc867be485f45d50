package repository

import (
	"context"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// UserRepository defines data access for database-backed staff logins.
type UserRepository interface {
	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
