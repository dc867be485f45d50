package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

const (
	suggestScanLimit   = 50
	suggestResultLimit = 15
)

// DoctorRegistration is the self-service sign-up form.
type DoctorRegistration struct {
	Name           string `json:"name" form:"name"`
	Username       string `json:"username" form:"username"`
	Password       string `json:"password" form:"password"`
	Department     string `json:"department" form:"department"`
	Specialization string `json:"specialization" form:"specialization"`
	LicenseNo      string `json:"license_no" form:"license_no"`
}

// DoctorDashboard is the landing page of a logged-in doctor.
type DoctorDashboard struct {
	Doctor             *model.Doctor   `json:"doctor"`
	Today              string          `json:"today"`
	Patients           []model.Patient `json:"patients"`
	TotalPatients      int             `json:"total_patients"`
	PatientsToday      int             `json:"patients_today"`
	PendingPatients    int             `json:"pending_patients"`
	TotalPrescriptions int             `json:"total_prescriptions"`
}

// Suggestion is one medicine autocomplete entry.
type Suggestion struct {
	Name     string `json:"name"`
	Form     string `json:"form"`
	Strength string `json:"strength"`
	StockQty int    `json:"stock_qty"`
	InStock  bool   `json:"in_stock"`
	Score    int    `json:"score"`
}

// PrescribeContext is what a doctor needs to write a prescription.
type PrescribeContext struct {
	Patient   *model.Patient   `json:"patient"`
	Medicines []model.Medicine `json:"medicines"`
}

// PrescriptionInput is the prescribe form. MedicinesJSON is a JSON list.
type PrescriptionInput struct {
	Diagnosis     string `json:"diagnosis" form:"diagnosis"`
	Notes         string `json:"notes" form:"notes"`
	MedicinesJSON string `json:"medicines_json" form:"medicines_json"`
}

// PatientHistory lists a patient's prescriptions, newest first.
type PatientHistory struct {
	Patient       *model.Patient       `json:"patient"`
	Prescriptions []model.Prescription `json:"prescriptions"`
}

// DoctorService covers doctor accounts and the consultation workflow.
type DoctorService interface {
	Register(ctx context.Context, in DoctorRegistration) (*model.Doctor, error)
	Login(ctx context.Context, username, password string) (*model.Doctor, error)

	// Authenticate loads the doctor of a session and requires approval.
	Authenticate(ctx context.Context, id int64) (*model.Doctor, error)

	List(ctx context.Context, status string) ([]model.Doctor, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error

	Dashboard(ctx context.Context, d *model.Doctor) (*DoctorDashboard, error)
	Suggest(ctx context.Context, q string) ([]Suggestion, error)
	PrescribeContext(ctx context.Context, uid string) (*PrescribeContext, error)
	Prescribe(ctx context.Context, d *model.Doctor, uid string, in PrescriptionInput) (*model.Prescription, error)
	History(ctx context.Context, uid string) (*PatientHistory, error)
}

type doctorService struct {
	doctors       repository.DoctorRepository
	patients      repository.PatientRepository
	prescriptions repository.PrescriptionRepository
	medicines     repository.MedicineRepository
	loc           *time.Location
	log           *zap.Logger
	now           func() time.Time
}

// NewDoctorService constructs a DoctorService.
func NewDoctorService(
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	prescriptions repository.PrescriptionRepository,
	medicines repository.MedicineRepository,
	loc *time.Location,
	log *zap.Logger,
) DoctorService {
	if loc == nil {
		loc = time.UTC
	}
	return &doctorService{
		doctors:       doctors,
		patients:      patients,
		prescriptions: prescriptions,
		medicines:     medicines,
		loc:           loc,
		log:           log,
		now:           time.Now,
	}
}

func (s *doctorService) Register(ctx context.Context, in DoctorRegistration) (*model.Doctor, error) {
	name := strings.TrimSpace(in.Name)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	password := strings.TrimSpace(in.Password)
	department := strings.TrimSpace(in.Department)
	if department == "" {
		department = strings.TrimSpace(in.Specialization)
	}

	if name == "" || username == "" || password == "" {
		return nil, invalid("Name, Username, and Password are required.")
	}
	if _, err := s.doctors.FindByUsername(ctx, username); err == nil {
		return nil, invalid("Username already in use.")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.Create(ctx, &model.Doctor{
		Username:       username,
		Name:           name,
		Department:     department,
		Specialization: department,
		LicenseNo:      strings.TrimSpace(in.LicenseNo),
		PasswordHash:   hash,
		Status:         model.DoctorPending,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("doctor registered", zap.Int64("doctor_id", d.ID), zap.String("username", username))
	return d, nil
}

func (s *doctorService) Login(ctx context.Context, username, password string) (*model.Doctor, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, invalid("Username and password required.")
	}

	d, err := s.doctors.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, d.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !d.IsApproved() {
		return nil, ErrNotApproved
	}
	return d, nil
}

func (s *doctorService) Authenticate(ctx context.Context, id int64) (*model.Doctor, error) {
	d, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !d.IsApproved() {
		return nil, ErrNotApproved
	}
	return d, nil
}

func (s *doctorService) List(ctx context.Context, status string) ([]model.Doctor, error) {
	return s.doctors.ListByStatus(ctx, strings.ToLower(strings.TrimSpace(status)))
}

func (s *doctorService) Approve(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.DoctorApproved)
}

func (s *doctorService) Reject(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.DoctorRejected)
}

func (s *doctorService) setStatus(ctx context.Context, id int64, status string) error {
	if err := s.doctors.UpdateStatus(ctx, id, status); err != nil {
		return notFound(err, ErrDoctorNotFound)
	}
	s.log.Info("doctor status changed", zap.Int64("doctor_id", id), zap.String("status", status))
	return nil
}

func (s *doctorService) Dashboard(ctx context.Context, d *model.Doctor) (*DoctorDashboard, error) {
	patients, err := s.patients.ListForDoctor(ctx, d.ID, d.Name)
	if err != nil {
		return nil, err
	}
	total, err := s.prescriptions.CountByDoctorName(ctx, d.Name)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.loc).Format("2006-01-02")
	dash := &DoctorDashboard{
		Doctor:             d,
		Today:              today,
		Patients:           patients,
		TotalPatients:      len(patients),
		TotalPrescriptions: total,
	}
	for _, p := range patients {
		if !p.CreatedAt.IsZero() && p.CreatedAt.In(s.loc).Format("2006-01-02") == today {
			dash.PatientsToday++
		}
		if strings.ToLower(p.Status) == model.PatientWaiting {
			dash.PendingPatients++
		}
	}
	return dash, nil
}

// Suggest ranks medicines for autocomplete: in stock first, then prefix matches, then by name.
func (s *doctorService) Suggest(ctx context.Context, q string) ([]Suggestion, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []Suggestion{}, nil
	}
	meds, err := s.medicines.Suggest(ctx, q, suggestScanLimit)
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(meds))
	for _, m := range meds {
		if m.Name == "" {
			continue
		}
		lower := strings.ToLower(m.Name)
		score := 0
		switch {
		case strings.HasPrefix(lower, q):
			score = 2
		case strings.Contains(lower, q):
			score = 1
		}
		out = append(out, Suggestion{
			Name:     m.Name,
			Form:     m.Form,
			Strength: m.Strength,
			StockQty: m.StockQty,
			InStock:  m.StockQty > 0,
			Score:    score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.InStock != b.InStock {
			return a.InStock
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Name < b.Name
	})
	if len(out) > suggestResultLimit {
		out = out[:suggestResultLimit]
	}
	return out, nil
}

func (s *doctorService) patientByUID(ctx context.Context, uid string) (*model.Patient, error) {
	p, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	return p, nil
}

func (s *doctorService) PrescribeContext(ctx context.Context, uid string) (*PrescribeContext, error) {
	p, err := s.patientByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	meds, err := s.medicines.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &PrescribeContext{Patient: p, Medicines: meds}, nil
}

func (s *doctorService) Prescribe(ctx context.Context, d *model.Doctor, uid string, in PrescriptionInput) (*model.Prescription, error) {
	p, err := s.patientByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	rx, err := s.prescriptions.Create(ctx, &model.Prescription{
		PatientID:  p.ID,
		DoctorName: d.Name,
		Diagnosis:  strings.TrimSpace(in.Diagnosis),
		Notes:      strings.TrimSpace(in.Notes),
		Medicines:  ParsePrescribedMedicines(in.MedicinesJSON),
	})
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	s.log.Info("prescription saved",
		zap.Int64("prescription_id", rx.ID),
		zap.String("patient_uid", p.UID),
		zap.Int("medicines", len(rx.Medicines)),
	)
	return rx, nil
}

func (s *doctorService) History(ctx context.Context, uid string) (*PatientHistory, error) {
	p, err := s.patientByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	rx, err := s.prescriptions.ListByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &PatientHistory{Patient: p, Prescriptions: rx}, nil
}

// ParsePrescribedMedicines accepts a JSON list of medicine objects or plain names.
// Anything unparsable yields an empty list.
func ParsePrescribedMedicines(raw string) []model.PrescribedMedicine {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []model.PrescribedMedicine{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []model.PrescribedMedicine{}
	}

	out := make([]model.PrescribedMedicine, 0, len(items))
	for _, it := range items {
		var m model.PrescribedMedicine
		if err := json.Unmarshal(it, &m); err == nil {
			out = append(out, m)
			continue
		}
		var name string
		if err := json.Unmarshal(it, &name); err == nil && strings.TrimSpace(name) != "" {
			out = append(out, model.PrescribedMedicine{Name: strings.TrimSpace(name)})
		}
	}
	return out
}
