package model

import "time"

// User is a database-backed staff login (pharmacists).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// OTPLog is a one-time code sent to a patient's phone.
type OTPLog struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	OTP       string    `json:"-"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
