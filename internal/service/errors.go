// Package service implements the use cases of the hospital portal: reception, doctors, pharmacy and reports.
// Services depend on repository interfaces and never on SQL.
package service

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDispenseNotFound   = errors.New("dispense not found")
	ErrUnknownQR          = errors.New("invalid or unknown QR code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("doctor not approved")
	ErrImportExpired      = errors.New("import session expired")
	ErrNotCSV             = errors.New("please upload a CSV file")
	ErrEmptyDispense      = errors.New("no items to dispense")
	ErrInvalidShareToken  = errors.New("invalid link")
	ErrShareSignature     = errors.New("invalid or expired link")
	ErrOCRUnavailable     = errors.New("ocr engine is not configured")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// notFound maps sql.ErrNoRows to target and passes other errors through.
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}
