package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/qrcode"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
	"github.com/amarshaik012/smart-qr-health/internal/storage"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	gmailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@gmail\.com$`)
)

// qrLinkExpiry is how long a presigned QR download link stays valid.
const qrLinkExpiry = 15 * time.Minute

var validGenders = map[string]bool{"Male": true, "Female": true, "Other": true}
var validPaymentModes = map[string]bool{"Cash": true, "UPI": true, "Card": true}

// RegistrationInput is the reception registration form.
type RegistrationInput struct {
	Name           string `json:"name" form:"name"`
	Phone          string `json:"phone" form:"phone"`
	Email          string `json:"email" form:"email"`
	Gender         string `json:"gender" form:"gender"`
	DOB            string `json:"dob" form:"dob"`
	Weight         string `json:"weight" form:"weight"`
	Height         string `json:"height" form:"height"`
	AssignedDoctor string `json:"assigned_doctor" form:"assigned_doctor"`
	PaymentMode    string `json:"payment_mode" form:"payment_mode"`
	PaymentAmount  string `json:"payment_amount" form:"payment_amount"`
	PaymentRef     string `json:"payment_ref" form:"payment_ref"`
}

// RegistrationResult is returned after a patient was registered.
type RegistrationResult struct {
	Patient    *model.Patient `json:"patient"`
	QRURL      string         `json:"qr_url"`
	PreviewURL string         `json:"preview_url"`
}

// DateGroup lists the patients registered on one day.
type DateGroup struct {
	Date     string          `json:"date"`
	Patients []model.Patient `json:"patients"`
}

// PatientDashboard groups patients by registration date, newest day first.
type PatientDashboard struct {
	Groups         []DateGroup `json:"grouped_patients"`
	TotalPatients  int         `json:"total_patients"`
	RecentPatients int         `json:"recent_patients"`
}

// QRPreview is the printable QR slip shown after registration.
type QRPreview struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	AssignedDoctor string `json:"assigned_doctor"`
	QRFilename     string `json:"qr_filename"`
	QRURL          string `json:"qr_url"`
	QRDownloadURL  string `json:"qr_download_url,omitempty"`
	HospitalName   string `json:"hospital_name"`
	PatientUID     string `json:"patient_uid"`
}

// PublicCard is what a scanned QR code shows.
type PublicCard struct {
	Patient       *model.Patient       `json:"patient"`
	Height        string               `json:"height"`
	QRURL         string               `json:"qr_url"`
	Prescriptions []model.Prescription `json:"prescriptions"`
}

// Export is a generated CSV file.
type Export struct {
	Filename string
	Key      string
	Data     []byte
}

// PatientService covers reception, admin and public patient use cases.
type PatientService interface {
	Register(ctx context.Context, in RegistrationInput) (*RegistrationResult, error)
	ApprovedDoctors(ctx context.Context) ([]model.Doctor, error)
	Dashboard(ctx context.Context) (*PatientDashboard, error)
	Get(ctx context.Context, id int64) (*model.Patient, error)
	Update(ctx context.Context, id int64, u model.PatientUpdate) (*model.Patient, error)

	// Delete removes the patient and its stored QR image. Missing patients are not an error.
	Delete(ctx context.Context, id int64) error

	QRPreview(ctx context.Context, uid string) (*QRPreview, error)

	// QRImage renders the QR code for uid without a database lookup.
	QRImage(ctx context.Context, uid string) ([]byte, error)

	// StoredQR streams a QR image saved at registration.
	StoredQR(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error)

	PublicCard(ctx context.Context, uid string) (*PublicCard, error)

	ExportPatients(ctx context.Context) (*Export, error)
	ExportPayments(ctx context.Context) (*Export, error)
}

type patientService struct {
	patients      repository.PatientRepository
	doctors       repository.DoctorRepository
	payments      repository.PaymentRepository
	prescriptions repository.PrescriptionRepository
	store         storage.Storage
	qr            *qrcode.Encoder
	hospital      string
	loc           *time.Location
	log           *zap.Logger
	now           func() time.Time
	newUID        func() string
}

// PatientServiceDeps groups the collaborators of PatientService.
type PatientServiceDeps struct {
	Patients      repository.PatientRepository
	Doctors       repository.DoctorRepository
	Payments      repository.PaymentRepository
	Prescriptions repository.PrescriptionRepository
	Store         storage.Storage
	QR            *qrcode.Encoder
	HospitalName  string
	Location      *time.Location
	Logger        *zap.Logger
}

// NewPatientService constructs a PatientService.
func NewPatientService(d PatientServiceDeps) PatientService {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &patientService{
		patients:      d.Patients,
		doctors:       d.Doctors,
		payments:      d.Payments,
		prescriptions: d.Prescriptions,
		store:         d.Store,
		qr:            d.QR,
		hospital:      d.HospitalName,
		loc:           loc,
		log:           d.Logger,
		now:           time.Now,
		newUID:        newPatientUID,
	}
}

// newPatientUID returns 12 upper-case hex characters of a random UUID.
func newPatientUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func (s *patientService) Register(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, invalid("Full name is required.")
	}
	if !phonePattern.MatchString(phone) {
		return nil, invalid("Phone number must be exactly 10 digits.")
	}
	if !gmailPattern.MatchString(email) {
		return nil, invalid("Email must be a valid Gmail address (e.g., name@gmail.com).")
	}
	if !validGenders[in.Gender] {
		return nil, invalid("Please select a valid gender.")
	}
	dob, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(in.DOB), s.loc)
	if err != nil {
		return nil, invalid("Invalid Date of Birth.")
	}
	if dob.After(s.today()) {
		return nil, invalid("Date of Birth cannot be in the future.")
	}
	if strings.TrimSpace(in.Weight) == "" {
		return nil, invalid("Weight is required.")
	}
	if strings.TrimSpace(in.Height) == "" {
		return nil, invalid("Height is required.")
	}
	doctorName := strings.TrimSpace(in.AssignedDoctor)
	if doctorName == "" {
		return nil, invalid("Please assign a doctor.")
	}
	doctor, err := s.doctors.FindApprovedByName(ctx, doctorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalid("Assigned doctor is not valid or not approved.")
		}
		return nil, err
	}
	if !validPaymentModes[in.PaymentMode] {
		return nil, invalid("Select a valid payment mode (Cash / UPI / Card).")
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(in.PaymentAmount), 64)
	if err != nil || amount < 0 {
		return nil, invalid("Payment amount must be a number (0 or above).")
	}
	exists, err := s.patients.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("Phone number is already registered.")
	}

	uid := s.newUID()
	filename := qrcode.Filename(uid)
	png, err := s.qr.PNG(uid)
	if err != nil {
		return nil, err
	}
	key := storage.QRKey(filename)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(png), storage.PutObjectOptions{
		Size:        int64(len(png)),
		ContentType: "image/png",
		Metadata:    map[string]string{"patient-uid": uid},
	}); err != nil {
		return nil, fmt.Errorf("upload qr: %w", err)
	}

	doctorID := doctor.ID
	stored, err := s.patients.Create(ctx, &model.Patient{
		UID:            uid,
		Name:           name,
		Phone:          phone,
		Email:          email,
		Gender:         strings.TrimSpace(in.Gender),
		DOB:            &dob,
		Weight:         strings.TrimSpace(in.Weight),
		Height:         strings.TrimSpace(in.Height),
		AssignedDoctor: doctorName,
		DoctorID:       &doctorID,
		Status:         model.PatientWaiting,
		QRFilename:     filename,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	status := model.PaymentPending
	if amount > 0 {
		status = model.PaymentPaid
	}
	patientID := stored.ID
	if _, err := s.payments.Create(ctx, &model.Payment{
		PatientID: &patientID,
		DoctorID:  &doctorID,
		Amount:    amount,
		Status:    status,
		Method:    strings.ToLower(in.PaymentMode),
		Reference: strings.TrimSpace(in.PaymentRef),
	}); err != nil {
		s.log.Warn("payment insert failed", zap.String("patient_uid", uid), zap.Error(err))
	}

	s.log.Info("patient registered", zap.String("patient_uid", uid), zap.Int64("doctor_id", doctorID))
	return &RegistrationResult{
		Patient:    stored,
		QRURL:      "/static/qr/" + filename,
		PreviewURL: "/reception/qr-preview/" + uid,
	}, nil
}

func (s *patientService) ApprovedDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.doctors.ListByStatus(ctx, model.DoctorApproved)
}

func (s *patientService) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

func (s *patientService) Dashboard(ctx context.Context) (*PatientDashboard, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today().Format("2006-01-02")
	byDate := map[string][]model.Patient{}
	dash := &PatientDashboard{TotalPatients: len(patients), Groups: []DateGroup{}}
	for _, p := range patients {
		day := today
		if !p.CreatedAt.IsZero() {
			day = p.CreatedAt.In(s.loc).Format("2006-01-02")
		}
		byDate[day] = append(byDate[day], p)
		if day == today {
			dash.RecentPatients++
		}
	}

	days := make([]string, 0, len(byDate))
	for d := range byDate {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	for _, d := range days {
		dash.Groups = append(dash.Groups, DateGroup{Date: d, Patients: byDate[d]})
	}
	return dash, nil
}

func (s *patientService) Get(ctx context.Context, id int64) (*model.Patient, error) {
	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	return p, nil
}

func (s *patientService) Update(ctx context.Context, id int64, u model.PatientUpdate) (*model.Patient, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	u = model.PatientUpdate{
		Name:   strings.TrimSpace(u.Name),
		Phone:  strings.TrimSpace(u.Phone),
		Email:  strings.TrimSpace(u.Email),
		Gender: strings.TrimSpace(u.Gender),
	}
	if !phonePattern.MatchString(u.Phone) {
		return nil, invalid("Invalid phone number")
	}
	p, err := s.patients.Update(ctx, id, u)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	return p, nil
}

func (s *patientService) Delete(ctx context.Context, id int64) error {
	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("patient to delete not found", zap.Int64("patient_id", id))
			return nil
		}
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	if p.QRFilename != "" {
		if err := s.store.Delete(ctx, storage.QRKey(p.QRFilename)); err != nil {
			s.log.Warn("qr delete failed", zap.String("patient_uid", p.UID), zap.Error(err))
		}
	}
	s.log.Info("patient deleted", zap.Int64("patient_id", id), zap.String("patient_uid", p.UID))
	return nil
}

func (s *patientService) byUID(ctx context.Context, uid string) (*model.Patient, error) {
	p, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	return p, nil
}

func (s *patientService) QRPreview(ctx context.Context, uid string) (*QRPreview, error) {
	p, err := s.byUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	doctor := p.AssignedDoctor
	if doctor == "" {
		doctor = "Unassigned"
	}
	preview := &QRPreview{
		Name:           p.Name,
		Phone:          p.Phone,
		AssignedDoctor: doctor,
		QRFilename:     p.QRFilename,
		QRURL:          "/static/qr/" + p.QRFilename,
		HospitalName:   s.hospital,
		PatientUID:     p.UID,
	}
	if p.QRFilename != "" {
		link, err := s.store.PresignGet(ctx, storage.QRKey(p.QRFilename), qrLinkExpiry)
		if err != nil {
			s.log.Warn("qr presign failed", zap.String("patient_uid", p.UID), zap.Error(err))
		} else {
			preview.QRDownloadURL = link
		}
	}
	return preview, nil
}

func (s *patientService) QRImage(ctx context.Context, uid string) ([]byte, error) {
	return s.qr.PNG(strings.TrimSpace(uid))
}

func (s *patientService) StoredQR(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	rc, info, err := s.store.Get(ctx, storage.QRKey(filename))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	return rc, info, err
}

func (s *patientService) PublicCard(ctx context.Context, uid string) (*PublicCard, error) {
	p, err := s.byUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	rx, err := s.prescriptions.ListByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &PublicCard{
		Patient:       p,
		Height:        qrcode.NormalizeHeight(p.Height),
		QRURL:         "/static/qr/" + p.QRFilename,
		Prescriptions: rx,
	}, nil
}

func (s *patientService) ExportPatients(ctx context.Context) (*Export, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	header := []string{"patient_uid", "name", "phone", "email", "gender", "dob", "weight", "height",
		"assigned_doctor", "status", "qr_url", "timestamp"}
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		dob := ""
		if p.DOB != nil {
			dob = p.DOB.Format("2006-01-02")
		}
		rows = append(rows, []string{
			p.UID, p.Name, p.Phone, p.Email, p.Gender, dob, p.Weight, qrcode.NormalizeHeight(p.Height),
			p.AssignedDoctor, p.Status, "/static/qr/" + p.QRFilename, p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return s.export(ctx, "patients", header, rows)
}

func (s *patientService) ExportPayments(ctx context.Context) (*Export, error) {
	payments, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	header := []string{"Timestamp", "PatientUID", "Name", "Mode", "Amount", "Status", "Reference"}
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			p.CreatedAt.UTC().Format(time.RFC3339), p.PatientUID, p.PatientName, p.Method,
			strconv.FormatFloat(p.Amount, 'f', 2, 64), p.Status, p.Reference,
		})
	}
	return s.export(ctx, "payments", header, rows)
}

// export renders a CSV and archives a copy in object storage. Archive failures are logged only.
func (s *patientService) export(ctx context.Context, name string, header []string, rows [][]string) (*Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write %s csv: %w", name, err)
	}

	key := storage.ExportKey(name, s.now())
	if _, err := s.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
	}); err != nil {
		s.log.Warn("export archive failed", zap.String("key", key), zap.Error(err))
	}
	return &Export{Filename: name + ".csv", Key: key, Data: buf.Bytes()}, nil
}
