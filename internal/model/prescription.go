package model

import "time"

// PrescribedMedicine is one entry of a prescription's medicine list.
type PrescribedMedicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Prescription is written by a doctor for a patient visit.
type Prescription struct {
	ID         int64                `json:"id"`
	PatientID  int64                `json:"patient_id"`
	DoctorName string               `json:"doctor_name"`
	Diagnosis  string               `json:"diagnosis"`
	Notes      string               `json:"notes"`
	Medicines  []PrescribedMedicine `json:"medicines"`
	CreatedAt  time.Time            `json:"created_at"`
}
