package model

import (
	"strings"
	"time"
)

// Doctor is a staff account that must be approved by an admin before logging in.
type Doctor struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	Specialization string    `json:"specialization"`
	LicenseNo      string    `json:"license_no"`
	PasswordHash   string    `json:"-"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsApproved reports whether the doctor may log in. Older rows used "active" or "enabled".
func (d Doctor) IsApproved() bool {
	switch strings.ToLower(strings.TrimSpace(d.Status)) {
	case DoctorApproved, "active", "enabled":
		return true
	}
	return false
}
