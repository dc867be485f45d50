package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/http/middleware"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// maxUploadSize caps CSV and prescription image uploads.
const maxUploadSize = 8 << 20

func formFlag(c *fiber.Ctx, keys []string, truthy ...string) bool {
	for _, k := range keys {
		v := strings.ToLower(strings.TrimSpace(c.FormValue(k)))
		if v == "" {
			continue
		}
		for _, t := range truthy {
			if v == t {
				return true
			}
		}
		return false
	}
	return false
}

func replaceAllFlag(c *fiber.Ctx) bool {
	return formFlag(c, []string{"replace_all", "mode"}, "yes", "true", "1", "on", "replace", "all")
}

func quickFlag(c *fiber.Ctx) bool {
	return formFlag(c, []string{"quick"}, "yes", "true", "1", "on")
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadSize {
		return nil, fiber.ErrRequestEntityTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadSize))
}

// parseCSVUpload reads the "file" form field as an inventory CSV.
func parseCSVUpload(c *fiber.Ctx) (*service.ParsedImport, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, service.ErrNotCSV
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") {
		return nil, service.ErrNotCSV
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return service.ParseInventoryCSV(fh.Filename, io.LimitReader(f, maxUploadSize))
}

func importMessage(s *model.ImportSummary) string {
	prefix := ""
	if s.ReplacedAll {
		prefix = "Synchronized inventory to CSV. "
	}
	return fmt.Sprintf("%sCreated: %d, Updated: %d, Deleted: %d, Kept(historical): %d, Skipped: %d",
		prefix, s.Created, s.Updated, s.Deleted, s.KeptDueToHistory, s.Skipped)
}

func importDone(c *fiber.Ctx, s *model.ImportSummary) error {
	return c.JSON(fiber.Map{
		"status":              "success",
		"message":             importMessage(s),
		"created":             s.Created,
		"updated":             s.Updated,
		"skipped":             s.Skipped,
		"deleted":             s.Deleted,
		"kept_due_to_history": s.KeptDueToHistory,
		"total":               s.Total,
		"replaced_all":        s.ReplacedAll,
	})
}

// PharmacyDashboard returns the desk's headline counts.
func PharmacyDashboard(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		k, err := pharmacy.KPIs(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"kpis": k})
	}
}

// Inventory pages through medicines matching ?q=.
func Inventory(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := pharmacy.Inventory(c.UserContext(), c.Query("q"), queryInt(c, "page", 1), queryInt(c, "per_page", 0))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(page)
	}
}

// SyncInventory clamps negative stock to zero.
func SyncInventory(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := pharmacy.SyncStock(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"status": "ok", "synced": n})
	}
}

// ImportInventory is the one-shot CSV import. Without confirm=yes or quick it
// only reports what would happen.
func ImportInventory(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parsed, err := parseCSVUpload(c)
		if err != nil {
			return respondError(c, err)
		}
		replaceAll := replaceAllFlag(c)
		confirmed := strings.EqualFold(strings.TrimSpace(c.FormValue("confirm")), "yes")

		if !confirmed && !quickFlag(c) {
			mode := "upsert by Name"
			if replaceAll {
				mode = "SYNC to CSV (remove missing)"
			}
			return c.JSON(fiber.Map{
				"status":      "confirm",
				"message":     fmt.Sprintf("Parsed %d rows from %s. This will %s.", len(parsed.Rows), parsed.Filename, mode),
				"total":       len(parsed.Rows),
				"replace_all": replaceAll,
			})
		}

		summary, err := pharmacy.Import(c.UserContext(), parsed, replaceAll)
		if err != nil {
			return respondError(c, err)
		}
		return importDone(c, summary)
	}
}

// ImportPreview parks an uploaded CSV and returns its first rows.
// With quick set the CSV is applied immediately.
func ImportPreview(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parsed, err := parseCSVUpload(c)
		if err != nil {
			return respondError(c, err)
		}
		replaceAll := replaceAllFlag(c)

		if quickFlag(c) {
			summary, err := pharmacy.Import(c.UserContext(), parsed, replaceAll)
			if err != nil {
				return respondError(c, err)
			}
			return importDone(c, summary)
		}

		preview, err := pharmacy.PreviewImport(c.UserContext(), parsed, replaceAll)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(preview)
	}
}

// ImportConfirm applies a previewed CSV once.
func ImportConfirm(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.FormValue("token"))
		if token == "" {
			return respondError(c, service.ErrImportExpired)
		}
		var replaceAll *bool
		if c.FormValue("replace_all") != "" || c.FormValue("mode") != "" {
			v := replaceAllFlag(c)
			replaceAll = &v
		}
		summary, err := pharmacy.ConfirmImport(c.UserContext(), token, replaceAll)
		if err != nil {
			return respondError(c, err)
		}
		return importDone(c, summary)
	}
}

// PrescriptionForScan resolves a scanned QR code to what should be dispensed.
func PrescriptionForScan(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := pharmacy.PrescriptionForScan(c.UserContext(), c.Params("uid"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// Dispense bills medicines to a patient and decrements stock.
func Dispense(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.DispenseInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if claims := middleware.GetClaims(c); in.Pharmacist == "" && claims != nil {
			in.Pharmacist = claims.Subject
		}
		d, err := pharmacy.Dispense(c.UserContext(), c.Params("uid"), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"dispense":    d,
			"bill_url":    fmt.Sprintf("/pharmadesk/bill/%d", d.ID),
			"preview_url": fmt.Sprintf("/pharmadesk/bill/preview/%d", d.ID),
		})
	}
}

func sendBill(pharmacy service.PharmacyService, disposition string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		bill, err := pharmacy.Bill(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, bill.Filename))
		return c.Send(bill.Data)
	}
}

// BillDownload serves the bill PDF as an attachment.
func BillDownload(pharmacy service.PharmacyService) fiber.Handler {
	return sendBill(pharmacy, "attachment")
}

// BillInline serves the bill PDF for in-browser viewing.
func BillInline(pharmacy service.PharmacyService) fiber.Handler {
	return sendBill(pharmacy, "inline")
}

// BillPreview returns the on-screen bill.
func BillPreview(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := pharmacy.BillPreview(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// ShareLink returns a signed public link to a dispense.
func ShareLink(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := pharmacy.ShareLink(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// SharedBill opens a shared link. It needs no session.
func SharedBill(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bill, err := pharmacy.SharedBill(c.UserContext(), c.Params("token"))
		if errors.Is(err, service.ErrDispenseNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Prescription not found.")
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(bill)
	}
}

// Medicines feeds the dispense medicine picker.
func Medicines(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := pharmacy.Medicines(c.UserContext(), c.Query("q"), queryInt(c, "limit", 0))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(list)
	}
}

// Assistant answers canned inventory questions in ?q=.
func Assistant(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reply, err := pharmacy.Assistant(c.UserContext(), c.Query("q"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(reply)
	}
}

// Overview returns KPIs with the top stocked and top dispensed medicines.
func Overview(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := pharmacy.Overview(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(o)
	}
}

// ScanPrescription reads an uploaded prescription image and matches medicines.
func ScanPrescription(pharmacy service.PharmacyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var image []byte
		if fh, err := c.FormFile("image"); err == nil {
			image, err = readUpload(fh)
			if err != nil {
				return respondError(c, err)
			}
		}
		res, err := pharmacy.ScanPrescription(c.UserContext(), image)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
