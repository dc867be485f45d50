package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/invoice"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/storage"
)

const (
	defaultPharmacist  = "pharmadesk"
	defaultPaymentMode = "cash"
	maxDispenseError   = 300
)

// DispenseInput is the dispense form. ItemsJSON is a JSON array of bill lines.
type DispenseInput struct {
	ItemsJSON   string `json:"items_json" form:"items_json"`
	Pharmacist  string `json:"pharmacist" form:"pharmacist"`
	PaymentMode string `json:"payment_mode" form:"payment_mode"`
}

// ScanPrescription is what the pharmacist sees after scanning a patient QR. Source is
// "prescription" or "previous_dispense".
type ScanPrescription struct {
	Source     string                     `json:"source"`
	DoctorName string                     `json:"doctor_name,omitempty"`
	Diagnosis  string                     `json:"diagnosis"`
	Notes      string                     `json:"notes"`
	Medicines  []model.PrescribedMedicine `json:"medicines"`
	Items      []model.DispenseItem       `json:"items,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// ScanResult pairs the scanned patient with the prescription to fill, if any.
type ScanResult struct {
	Patient      *model.Patient    `json:"patient"`
	Prescription *ScanPrescription `json:"prescription"`
}

// BillDocument is a rendered invoice PDF.
type BillDocument struct {
	Filename string
	Data     []byte
}

// BillPreview is the on-screen bill.
type BillPreview struct {
	Dispense *model.Dispense      `json:"dispense"`
	Patient  *model.Patient       `json:"patient"`
	Items    []model.DispenseItem `json:"items"`
	Total    float64              `json:"total"`
	TaxSum   float64              `json:"tax_sum"`
	PDFURL   string               `json:"pdf_url"`
}

// SharedBill is what a share link opens.
type SharedBill struct {
	Dispense    *model.Dispense `json:"dispense"`
	Patient     *model.Patient  `json:"patient"`
	Hospital    string          `json:"hospital_name"`
	GeneratedAt time.Time       `json:"generated_at"`
}

func (s *pharmacyService) PrescriptionForScan(ctx context.Context, uid string) (*ScanResult, error) {
	p, err := s.patients.FindByUID(ctx, strings.TrimSpace(uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownQR
	}
	if err != nil {
		return nil, err
	}
	res := &ScanResult{Patient: p}

	rx, err := s.prescriptions.LatestByPatient(ctx, p.ID)
	switch {
	case err == nil:
		meds := rx.Medicines
		if meds == nil {
			meds = []model.PrescribedMedicine{}
		}
		res.Prescription = &ScanPrescription{
			Source:     "prescription",
			DoctorName: rx.DoctorName,
			Diagnosis:  rx.Diagnosis,
			Notes:      rx.Notes,
			Medicines:  meds,
			CreatedAt:  rx.CreatedAt,
		}
		return res, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	last, err := s.dispenses.LatestByPatient(ctx, p.ID)
	switch {
	case err == nil:
		meds := make([]model.PrescribedMedicine, 0, len(last.Items))
		for _, it := range last.Items {
			meds = append(meds, model.PrescribedMedicine{Name: it.Label, Notes: it.Notes})
		}
		res.Prescription = &ScanPrescription{
			Source:    "previous_dispense",
			Diagnosis: "Previous dispense",
			Notes:     last.Notes,
			Medicines: meds,
			Items:     last.Items,
			CreatedAt: last.CreatedAt,
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}
	return res, nil
}

// looseNumber accepts a JSON number, a numeric string or null.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseNumber(v)
	return nil
}

type dispenseLine struct {
	MedicineID  looseNumber `json:"medicine_id"`
	Label       string      `json:"label"`
	BatchNo     string      `json:"batch_no"`
	Expiry      string      `json:"expiry"`
	ExpiryDate  string      `json:"expiry_date"`
	Qty         looseNumber `json:"qty"`
	UnitPrice   looseNumber `json:"unit_price"`
	DiscountPct looseNumber `json:"discount_pct"`
	TaxPct      looseNumber `json:"tax_pct"`
	Notes       string      `json:"notes"`
}

// parseDispenseLines keeps the JSON objects of raw and drops anything else.
func parseDispenseLines(raw string) []dispenseLine {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &items); err != nil {
		return nil
	}
	out := make([]dispenseLine, 0, len(items))
	for _, it := range items {
		var l dispenseLine
		if err := json.Unmarshal(it, &l); err != nil {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (s *pharmacyService) Dispense(ctx context.Context, uid string, in DispenseInput) (*model.Dispense, error) {
	p, err := s.patients.FindByUID(ctx, strings.TrimSpace(uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	lines := parseDispenseLines(in.ItemsJSON)
	if len(lines) == 0 {
		return nil, ErrEmptyDispense
	}

	var problems []string
	items := make([]model.DispenseItem, 0, len(lines))
	for _, l := range lines {
		id := int64(l.MedicineID)
		med, err := s.medicines.FindByID(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			problems = append(problems, fmt.Sprintf("Unknown medicine id %d", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		qty := int(l.Qty)
		if qty <= 0 {
			problems = append(problems, fmt.Sprintf("%s: qty must be > 0", med.Name))
			continue
		}
		if qty > med.StockQty {
			problems = append(problems, fmt.Sprintf("%s: qty %d exceeds stock %d", med.Name, qty, med.StockQty))
		}

		item := model.DispenseItem{
			MedicineID:  med.ID,
			Label:       strings.TrimSpace(l.Label),
			BatchNo:     strings.TrimSpace(l.BatchNo),
			ExpiryDate:  strings.TrimSpace(l.ExpiryDate),
			Qty:         qty,
			UnitPrice:   float64(l.UnitPrice),
			DiscountPct: float64(l.DiscountPct),
			TaxPct:      float64(l.TaxPct),
			Notes:       strings.TrimSpace(l.Notes),
		}
		if item.Label == "" {
			item.Label = med.Label()
		}
		if item.BatchNo == "" {
			item.BatchNo = med.BatchNo
		}
		if item.ExpiryDate == "" {
			item.ExpiryDate = strings.TrimSpace(l.Expiry)
		}
		if item.ExpiryDate == "" {
			item.ExpiryDate = med.ExpiryDate
		}
		items = append(items, item)
	}
	if len(problems) > 0 {
		msg := strings.Join(problems, "; ")
		if r := []rune(msg); len(r) > maxDispenseError {
			msg = string(r[:maxDispenseError])
		}
		return nil, invalid(msg)
	}

	total, _ := invoice.ComputeTotals(items)
	pharmacist := strings.TrimSpace(in.Pharmacist)
	if pharmacist == "" {
		pharmacist = defaultPharmacist
	}
	mode := strings.ToLower(strings.TrimSpace(in.PaymentMode))
	if mode == "" {
		mode = defaultPaymentMode
	}

	d, err := s.dispenses.Create(ctx, &model.Dispense{
		PatientID:   p.ID,
		TotalAmount: total,
		Pharmacist:  pharmacist,
		PaymentMode: mode,
		Items:       items,
	})
	if err != nil {
		return nil, fmt.Errorf("create dispense: %w", err)
	}
	s.log.Info("medicines dispensed",
		zap.Int64("dispense_id", d.ID),
		zap.String("patient_uid", p.UID),
		zap.Int("lines", len(items)),
		zap.Float64("total", total),
	)
	return d, nil
}

// loadBill returns the dispense with its lines and, when it still exists, its patient.
func (s *pharmacyService) loadBill(ctx context.Context, id int64) (*model.Dispense, *model.Patient, error) {
	d, err := s.dispenses.FindByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, ErrDispenseNotFound)
	}
	p, err := s.patients.FindByID(ctx, d.PatientID)
	if errors.Is(err, sql.ErrNoRows) {
		return d, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return d, p, nil
}

func (s *pharmacyService) renderBill(ctx context.Context, d *model.Dispense, p *model.Patient) (*BillDocument, error) {
	data, err := invoice.RenderBytes(invoice.Bill{
		Hospital:    s.hospital,
		Dispense:    d,
		Patient:     p,
		GeneratedAt: s.now().In(s.loc),
		Font:        s.invoiceFont,
	})
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	doc := &BillDocument{Filename: invoice.Filename(d.ID), Data: data}

	_, err = s.store.Put(ctx, storage.InvoiceKey(doc.Filename), bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/pdf",
		Metadata:    map[string]string{"dispense-id": strconv.FormatInt(d.ID, 10)},
	})
	if err != nil {
		s.log.Warn("invoice archive failed", zap.Int64("dispense_id", d.ID), zap.Error(err))
	}
	return doc, nil
}

func (s *pharmacyService) Bill(ctx context.Context, dispenseID int64) (*BillDocument, error) {
	d, p, err := s.loadBill(ctx, dispenseID)
	if err != nil {
		return nil, err
	}
	return s.renderBill(ctx, d, p)
}

func (s *pharmacyService) BillPreview(ctx context.Context, dispenseID int64) (*BillPreview, error) {
	d, p, err := s.loadBill(ctx, dispenseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.renderBill(ctx, d, p); err != nil {
		s.log.Warn("invoice render failed", zap.Int64("dispense_id", d.ID), zap.Error(err))
	}
	_, tax := invoice.ComputeTotals(d.Items)
	items := d.Items
	if items == nil {
		items = []model.DispenseItem{}
	}
	return &BillPreview{
		Dispense: d,
		Patient:  p,
		Items:    items,
		Total:    invoice.Round2(d.TotalAmount),
		TaxSum:   tax,
		PDFURL:   fmt.Sprintf("/pharmadesk/dispense/%d/bill.pdf", d.ID),
	}, nil
}

func (s *pharmacyService) ShareLink(ctx context.Context, dispenseID int64) (string, error) {
	if _, err := s.dispenses.FindByID(ctx, dispenseID); err != nil {
		return "", notFound(err, ErrDispenseNotFound)
	}
	token, err := s.signer.Token(dispenseID)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return s.baseURL + "/pharmadesk/prescription/view/" + url.PathEscape(token), nil
}

func (s *pharmacyService) SharedBill(ctx context.Context, token string) (*SharedBill, error) {
	id, err := s.signer.DispenseID(strings.TrimSpace(token))
	switch {
	case errors.Is(err, auth.ErrBadSignature):
		return nil, ErrShareSignature
	case err != nil:
		return nil, ErrInvalidShareToken
	}
	d, p, err := s.loadBill(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SharedBill{Dispense: d, Patient: p, Hospital: s.hospital, GeneratedAt: s.now().In(s.loc)}, nil
}
