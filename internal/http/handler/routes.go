package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/http/middleware"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB       *sql.DB
	Auth     service.AuthService
	OTP      service.OTPService
	Patients service.PatientService
	Doctors  service.DoctorService
	Pharmacy service.PharmacyService
	Reports  service.ReportService
	Sessions SessionIssuer

	// Limiter throttles logins and OTP requests. Nil disables throttling.
	Limiter *middleware.RateLimiter

	ServiceName  string
	Version      string
	HospitalName string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the services.
func RegisterRoutes(app *fiber.App, d Deps) {
	throttle := func(c *fiber.Ctx) error { return c.Next() }
	if d.Limiter != nil {
		throttle = d.Limiter.Handler()
	}
	ttl := d.Sessions.TTL()

	app.Get("/", Root())
	app.Get("/portal", Portal(d.HospitalName))
	app.Get("/health", Health(d.ServiceName, d.Version))
	app.Get("/health/db", DBHealth(d.DB))
	app.Get("/readyz", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	// Public QR pages
	app.Get("/qr/:uid", QRImage(d.Patients))
	app.Get("/static/qr/:file", StoredQR(d.Patients))
	app.Post("/p/send-otp", throttle, SendPublicOTP(d.OTP))
	app.Post("/p/verify-otp", throttle, VerifyPublicOTP(d.OTP))
	app.Get("/p/:uid", PublicCard(d.Patients))

	registerReception(app, d, ttl, throttle)
	registerAdmin(app, d, ttl, throttle)
	registerDoctor(app, d, throttle)
	registerPharmacy(app, d, ttl, throttle)

	reports := app.Group("/reports", middleware.RequireRole(d.Auth, auth.RoleAdmin))
	reports.Get("/summary", ReportSummary(d.Reports))
}

func registerReception(app *fiber.App, d Deps, ttl time.Duration, throttle fiber.Handler) {
	r := app.Group("/reception")
	r.Post("/login", throttle, ReceptionLogin(d.Auth, ttl))
	r.Post("/logout", Logout(auth.RoleReception))

	guard := middleware.RequireRole(d.Auth, auth.RoleReception)
	r.Get("/dashboard", guard, PatientDashboard(d.Patients))
	r.Get("/doctors", guard, ApprovedDoctors(d.Patients))
	r.Post("/register", guard, RegisterPatient(d.Patients))
	r.Get("/qr-preview/:uid", guard, QRPreview(d.Patients))
	r.Get("/patients/:id", guard, GetPatient(d.Patients))
	r.Put("/patients/:id", guard, UpdatePatient(d.Patients))
	r.Post("/send-otp", guard, throttle, SendReceptionOTP(d.OTP))
	r.Post("/verify-otp", guard, VerifyReceptionOTP(d.OTP))
	r.Get("/export/patients.csv", guard, ExportPatients(d.Patients))
	r.Get("/export/payments.csv", guard, ExportPayments(d.Patients))
}

func registerAdmin(app *fiber.App, d Deps, ttl time.Duration, throttle fiber.Handler) {
	r := app.Group("/admin")
	r.Post("/login", throttle, AdminLogin(d.Auth, ttl))
	r.Post("/logout", Logout(auth.RoleAdmin))

	guard := middleware.RequireRole(d.Auth, auth.RoleAdmin)
	r.Get("/dashboard", guard, PatientDashboard(d.Patients))
	r.Delete("/patients/:id", guard, DeletePatient(d.Patients))
	r.Get("/doctors", guard, ListDoctors(d.Doctors))
	r.Post("/doctors/:id/approve", guard, ApproveDoctor(d.Doctors))
	r.Post("/doctors/:id/reject", guard, RejectDoctor(d.Doctors))
}

func registerDoctor(app *fiber.App, d Deps, throttle fiber.Handler) {
	r := app.Group("/doctor")
	r.Post("/register", throttle, DoctorRegister(d.Doctors))
	r.Post("/login", throttle, DoctorLogin(d.Doctors, d.Sessions))
	r.Post("/logout", Logout(auth.RoleDoctor))

	guard := middleware.RequireDoctor(d.Auth, d.Doctors)
	r.Get("/dashboard", guard, DoctorDashboard(d.Doctors))
	r.Get("/api/availability", guard, Availability(d.Doctors))
	r.Get("/prescribe/:uid", guard, PrescribeContext(d.Doctors))
	r.Post("/prescribe/:uid", guard, Prescribe(d.Doctors))
	r.Get("/history/:uid", guard, PatientHistory(d.Doctors))
}

func registerPharmacy(app *fiber.App, d Deps, ttl time.Duration, throttle fiber.Handler) {
	r := app.Group("/pharmadesk")
	r.Post("/login", throttle, PharmacyLogin(d.Auth, ttl))
	r.Post("/logout", Logout(auth.RolePharmacist))
	r.Get("/prescription/view/:token", SharedBill(d.Pharmacy))

	guard := middleware.RequireRole(d.Auth, auth.RolePharmacist)
	r.Get("/", guard, PharmacyDashboard(d.Pharmacy))
	r.Get("/inventory", guard, Inventory(d.Pharmacy))
	r.Post("/inventory/sync", guard, SyncInventory(d.Pharmacy))
	r.Post("/inventory/import", guard, ImportInventory(d.Pharmacy))
	r.Post("/import/preview", guard, ImportPreview(d.Pharmacy))
	r.Post("/import/confirm", guard, ImportConfirm(d.Pharmacy))
	r.Get("/prescription/share/:id", guard, ShareLink(d.Pharmacy))
	r.Get("/prescription/:uid", guard, PrescriptionForScan(d.Pharmacy))
	r.Post("/dispense/:uid", guard, Dispense(d.Pharmacy))
	r.Get("/dispense/:id/bill.pdf", guard, BillInline(d.Pharmacy))
	r.Get("/bill/preview/:id", guard, BillPreview(d.Pharmacy))
	r.Get("/bill/:id", guard, BillDownload(d.Pharmacy))
	r.Get("/api/medicines", guard, Medicines(d.Pharmacy))
	r.Get("/api/assistant", guard, Assistant(d.Pharmacy))
	r.Get("/api/overview", guard, Overview(d.Pharmacy))
	r.Post("/ocr/prescription", guard, ScanPrescription(d.Pharmacy))
}
