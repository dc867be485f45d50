package model

import "time"

// Payment records the consultation fee taken at registration.
type Payment struct {
	ID        int64     `json:"id"`
	PatientID *int64    `json:"patient_id,omitempty"`
	DoctorID  *int64    `json:"doctor_id,omitempty"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}
