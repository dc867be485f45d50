// Package auth holds password hashing, role session tokens and signed prescription share links.
package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// legacyPrefix marks hashes written before bcrypt was available. They are still accepted on login.
const legacyPrefix = "plain:"

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password is empty")

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	if strings.HasPrefix(hash, legacyPrefix) {
		return hash == legacyPrefix+password
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
