package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/cache"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/ocr"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
	"github.com/amarshaik012/smart-qr-health/internal/storage"
)

// ImportPreviewTTL is how long an uploaded CSV waits for confirmation.
const ImportPreviewTTL = 45 * time.Minute

const (
	previewRowLimit   = 50
	defaultPerPage    = 20
	maxPerPage        = 100
	defaultMedLimit   = 10
	maxMedLimit       = 50
	defaultMedicineTx = 5.0
)

// KPIs are the headline counters of the pharmacy dashboard.
type KPIs struct {
	Patients  int `json:"patients"`
	Medicines int `json:"medicines"`
	Dispenses int `json:"dispenses"`
}

// NameQty is a medicine name with a quantity.
type NameQty struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Overview feeds the dashboard charts.
type Overview struct {
	KPIs         KPIs      `json:"kpis"`
	TopStock     []NameQty `json:"top_stock"`
	TopDispensed []NameQty `json:"top_dispensed"`
}

// InventoryPage is one page of the inventory listing.
type InventoryPage struct {
	Items      []model.Medicine `json:"meds"`
	Q          string           `json:"q"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
	Offset     int              `json:"offset"`
}

// ImportPreview is returned for an uploaded CSV awaiting confirmation.
type ImportPreview struct {
	Token      string            `json:"token"`
	Filename   string            `json:"filename"`
	Rows       []model.ImportRow `json:"rows"`
	Total      int               `json:"total"`
	ReplaceAll bool              `json:"replace_all"`
}

// MedicineOption is an entry of the dispense medicine picker.
type MedicineOption struct {
	ID       int64   `json:"id"`
	Label    string  `json:"label"`
	StockQty int     `json:"stock_qty"`
	MRP      float64 `json:"mrp"`
	TaxPct   float64 `json:"tax_pct"`
}

// OCRResult is the outcome of scanning a paper prescription.
type OCRResult struct {
	Engine  string      `json:"engine"`
	Text    string      `json:"text"`
	Matches []ocr.Match `json:"matches"`
}

// PharmacyService covers the PharmaDesk: inventory, imports, dispensing, bills and insights.
type PharmacyService interface {
	KPIs(ctx context.Context) (*KPIs, error)
	Overview(ctx context.Context) (*Overview, error)
	Inventory(ctx context.Context, q string, page, perPage int) (*InventoryPage, error)
	SyncStock(ctx context.Context) (int, error)

	// Import applies a parsed CSV immediately.
	Import(ctx context.Context, parsed *ParsedImport, replaceAll bool) (*model.ImportSummary, error)
	// PreviewImport parks a parsed CSV under a single-use token.
	PreviewImport(ctx context.Context, parsed *ParsedImport, replaceAll bool) (*ImportPreview, error)
	// ConfirmImport applies a parked CSV. A nil replaceAll keeps the choice made at preview time.
	ConfirmImport(ctx context.Context, token string, replaceAll *bool) (*model.ImportSummary, error)

	PrescriptionForScan(ctx context.Context, uid string) (*ScanResult, error)
	Dispense(ctx context.Context, uid string, in DispenseInput) (*model.Dispense, error)
	Bill(ctx context.Context, dispenseID int64) (*BillDocument, error)
	BillPreview(ctx context.Context, dispenseID int64) (*BillPreview, error)
	ShareLink(ctx context.Context, dispenseID int64) (string, error)
	SharedBill(ctx context.Context, token string) (*SharedBill, error)

	Medicines(ctx context.Context, q string, limit int) ([]MedicineOption, error)
	Assistant(ctx context.Context, prompt string) (*AssistantReply, error)
	ScanPrescription(ctx context.Context, image []byte) (*OCRResult, error)
}

// PharmacyServiceDeps groups the collaborators of PharmacyService.
type PharmacyServiceDeps struct {
	Patients      repository.PatientRepository
	Medicines     repository.MedicineRepository
	Prescriptions repository.PrescriptionRepository
	Dispenses     repository.DispenseRepository
	Store         storage.Storage
	Cache         cache.Cache
	Signer        *auth.ShareSigner
	OCR           ocr.Engine
	BaseURL       string
	HospitalName  string
	InvoiceFont   []byte
	Location      *time.Location
	Logger        *zap.Logger
}

type pharmacyService struct {
	patients      repository.PatientRepository
	medicines     repository.MedicineRepository
	prescriptions repository.PrescriptionRepository
	dispenses     repository.DispenseRepository
	store         storage.Storage
	cache         cache.Cache
	signer        *auth.ShareSigner
	ocr           ocr.Engine
	baseURL       string
	hospital      string
	invoiceFont   []byte
	loc           *time.Location
	log           *zap.Logger
	now           func() time.Time
	newToken      func() string
}

// NewPharmacyService constructs a PharmacyService.
func NewPharmacyService(d PharmacyServiceDeps) PharmacyService {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	signer := d.Signer
	if signer == nil {
		signer = auth.NewShareSigner("")
	}
	return &pharmacyService{
		patients:      d.Patients,
		medicines:     d.Medicines,
		prescriptions: d.Prescriptions,
		dispenses:     d.Dispenses,
		store:         d.Store,
		cache:         d.Cache,
		signer:        signer,
		ocr:           d.OCR,
		baseURL:       strings.TrimRight(d.BaseURL, "/"),
		hospital:      d.HospitalName,
		invoiceFont:   d.InvoiceFont,
		loc:           loc,
		log:           d.Logger,
		now:           time.Now,
		newToken:      func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

func (s *pharmacyService) KPIs(ctx context.Context) (*KPIs, error) {
	var k KPIs
	var err error
	if k.Patients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if k.Medicines, err = s.medicines.Count(ctx); err != nil {
		return nil, err
	}
	if k.Dispenses, err = s.dispenses.Count(ctx); err != nil {
		return nil, err
	}
	return &k, nil
}

func (s *pharmacyService) Overview(ctx context.Context) (*Overview, error) {
	k, err := s.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := s.medicines.TopByStock(ctx, 5)
	if err != nil {
		return nil, err
	}
	dispensed, err := s.dispenses.TopDispensed(ctx, allTime(), 5)
	if err != nil {
		return nil, err
	}
	return &Overview{KPIs: *k, TopStock: nameQty(stock), TopDispensed: nameQty(dispensed)}, nil
}

func allTime() repository.TimeRange {
	return repository.TimeRange{
		From: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func nameQty(in []model.MedicineQty) []NameQty {
	out := make([]NameQty, 0, len(in))
	for _, m := range in {
		out = append(out, NameQty{Name: m.Name, Qty: m.Qty})
	}
	return out
}

func (s *pharmacyService) Inventory(ctx context.Context, q string, page, perPage int) (*InventoryPage, error) {
	q = strings.TrimSpace(q)
	if page < 1 {
		page = 1
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	perPage = clamp(perPage, 1, maxPerPage)

	res, err := s.medicines.Search(ctx, q, repository.PageQuery{Limit: perPage, Offset: (page - 1) * perPage})
	if err != nil {
		return nil, err
	}
	totalPages := (res.Total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
		res, err = s.medicines.Search(ctx, q, repository.PageQuery{Limit: perPage, Offset: (page - 1) * perPage})
		if err != nil {
			return nil, err
		}
	}
	return &InventoryPage{
		Items:      res.Items,
		Q:          q,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      res.Total,
		Offset:     (page - 1) * perPage,
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *pharmacyService) SyncStock(ctx context.Context) (int, error) {
	n, err := s.medicines.SyncStock(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("inventory synced", zap.Int("medicines", n))
	return n, nil
}

func (s *pharmacyService) Import(ctx context.Context, parsed *ParsedImport, replaceAll bool) (*model.ImportSummary, error) {
	existing, err := s.medicines.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dispensed := map[int64]bool{}
	if replaceAll {
		if dispensed, err = s.medicines.DispensedIDs(ctx); err != nil {
			return nil, err
		}
	}

	plan, summary := planImport(parsed, existing, dispensed, replaceAll)
	if err := s.medicines.ApplyImport(ctx, plan); err != nil {
		return nil, fmt.Errorf("apply import: %w", err)
	}
	s.log.Info("inventory imported",
		zap.String("filename", parsed.Filename),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("deleted", summary.Deleted),
		zap.Int("kept_due_to_history", summary.KeptDueToHistory),
		zap.Int("skipped", summary.Skipped),
		zap.Bool("replace_all", replaceAll),
	)
	return &summary, nil
}

type parkedImport struct {
	Parsed     *ParsedImport `json:"parsed"`
	ReplaceAll bool          `json:"replace_all"`
	CreatedAt  time.Time     `json:"created_at"`
}

func importKey(token string) string {
	return "import:" + token
}

func (s *pharmacyService) PreviewImport(ctx context.Context, parsed *ParsedImport, replaceAll bool) (*ImportPreview, error) {
	b, err := json.Marshal(parkedImport{Parsed: parsed, ReplaceAll: replaceAll, CreatedAt: s.now()})
	if err != nil {
		return nil, err
	}
	token := s.newToken()
	if err := s.cache.Set(ctx, importKey(token), b, ImportPreviewTTL); err != nil {
		return nil, fmt.Errorf("park import: %w", err)
	}

	rows := parsed.Rows
	if len(rows) > previewRowLimit {
		rows = rows[:previewRowLimit]
	}
	return &ImportPreview{
		Token:      token,
		Filename:   parsed.Filename,
		Rows:       rows,
		Total:      len(parsed.Rows),
		ReplaceAll: replaceAll,
	}, nil
}

func (s *pharmacyService) ConfirmImport(ctx context.Context, token string, replaceAll *bool) (*model.ImportSummary, error) {
	key := importKey(strings.TrimSpace(token))
	b, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrImportExpired
	}
	if err != nil {
		return nil, err
	}
	// Single use, even when applying fails.
	defer func() {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.Warn("import token cleanup failed", zap.Error(err))
		}
	}()

	var parked parkedImport
	if err := json.Unmarshal(b, &parked); err != nil || parked.Parsed == nil {
		return nil, ErrImportExpired
	}
	replace := parked.ReplaceAll
	if replaceAll != nil {
		replace = *replaceAll
	}
	return s.Import(ctx, parked.Parsed, replace)
}

func (s *pharmacyService) Medicines(ctx context.Context, q string, limit int) ([]MedicineOption, error) {
	if limit == 0 {
		limit = defaultMedLimit
	}
	limit = clamp(limit, 1, maxMedLimit)

	meds, err := s.medicines.Lookup(ctx, strings.TrimSpace(q), limit)
	if err != nil {
		return nil, err
	}
	out := make([]MedicineOption, 0, len(meds))
	for _, m := range meds {
		tax := m.TaxPct
		if tax == 0 {
			tax = defaultMedicineTx
		}
		stock := m.StockQty
		if stock < 0 {
			stock = 0
		}
		out = append(out, MedicineOption{ID: m.ID, Label: m.Label(), StockQty: stock, MRP: m.MRP, TaxPct: tax})
	}
	return out, nil
}

func (s *pharmacyService) ScanPrescription(ctx context.Context, image []byte) (*OCRResult, error) {
	if s.ocr == nil {
		return nil, ErrOCRUnavailable
	}
	if len(image) == 0 {
		return nil, invalid("Please upload a prescription image.")
	}
	text, err := s.ocr.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	meds, err := s.medicines.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := ocr.MatchMedicines(text, meds)
	if matches == nil {
		matches = []ocr.Match{}
	}
	return &OCRResult{Engine: s.ocr.Name(), Text: text, Matches: matches}, nil
}
