package model

import "time"

// Patient is a registered visitor, identified publicly by its 12-character UID.
type Patient struct {
	ID             int64      `json:"id"`
	UID            string     `json:"patient_uid"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Gender         string     `json:"gender"`
	DOB            *time.Time `json:"dob,omitempty"`
	Weight         string     `json:"weight"`
	Height         string     `json:"height"`
	AssignedDoctor string     `json:"assigned_doctor"`
	DoctorID       *int64     `json:"doctor_id,omitempty"`
	Status         string     `json:"status"`
	QRFilename     string     `json:"qr_filename"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PatientUpdate holds the reception-editable fields of a patient.
type PatientUpdate struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
}
