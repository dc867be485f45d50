package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/docs"
	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/cache"
	"github.com/amarshaik012/smart-qr-health/internal/config"
	"github.com/amarshaik012/smart-qr-health/internal/database"
	"github.com/amarshaik012/smart-qr-health/internal/database/migration"
	handlers "github.com/amarshaik012/smart-qr-health/internal/http/handler"
	"github.com/amarshaik012/smart-qr-health/internal/http/middleware"
	"github.com/amarshaik012/smart-qr-health/internal/jobs"
	"github.com/amarshaik012/smart-qr-health/internal/logging"
	"github.com/amarshaik012/smart-qr-health/internal/ocr/tesseract"
	apptrace "github.com/amarshaik012/smart-qr-health/internal/otel"
	"github.com/amarshaik012/smart-qr-health/internal/qrcode"
	"github.com/amarshaik012/smart-qr-health/internal/repository/postgres"
	"github.com/amarshaik012/smart-qr-health/internal/service"
	"github.com/amarshaik012/smart-qr-health/internal/storage"
)

const (
	version         = "0.3.19"
	shutdownTimeout = 15 * time.Second
	bodyLimit       = 10 << 20

	otpPerMinute = 5
	otpBurst     = 3
)

// @title Smart QR Health API
// @version 0.3.19
// @description Unified patient, prescription and pharmacy portal.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault().Fatal("failed to load config", zap.Error(err))
	}
	loc := cfg.Server.Location()

	log, err := logging.New(cfg.Logging, loc)
	if err != nil {
		log = logging.NewDefault()
		log.Warn("invalid log config, using defaults", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := apptrace.Init(ctx, cfg.Server.ProjectName, version, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = migration.EnsureMigrated(migrateCtx, db, log, cfg.Database.Host)
	cancel()
	if err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	objStore := newStorage(cfg, log)
	ttlCache := newCache(ctx, cfg, log)
	if closer, ok := ttlCache.(io.Closer); ok {
		defer closer.Close()
	}

	sessions, err := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	if err != nil {
		log.Fatal("failed to initialize sessions", zap.Error(err))
	}
	if cfg.Auth.ShareSecret == "" {
		log.Warn("PHARMADESK_SECRET is not set, share links are unsigned")
	}

	// Initialize repositories and services
	patientRepo := postgres.NewPatientPostgres(db)
	doctorRepo := postgres.NewDoctorPostgres(db)
	medicineRepo := postgres.NewMedicinePostgres(db)
	prescriptionRepo := postgres.NewPrescriptionPostgres(db)
	dispenseRepo := postgres.NewDispensePostgres(db)
	otpRepo := postgres.NewOTPPostgres(db)

	authSvc := service.NewAuthService(sessions, postgres.NewUserPostgres(db), cfg.Auth, log)
	otpSvc := service.NewOTPService(otpRepo, ttlCache, log)
	patientSvc := service.NewPatientService(service.PatientServiceDeps{
		Patients:      patientRepo,
		Doctors:       doctorRepo,
		Payments:      postgres.NewPaymentPostgres(db),
		Prescriptions: prescriptionRepo,
		Store:         objStore,
		QR:            qrcode.NewEncoder(cfg.Server.PublicBaseURL),
		HospitalName:  cfg.Server.HospitalName,
		Location:      loc,
		Logger:        log,
	})
	doctorSvc := service.NewDoctorService(doctorRepo, patientRepo, prescriptionRepo, medicineRepo, loc, log)
	pharmacySvc := service.NewPharmacyService(service.PharmacyServiceDeps{
		Patients:      patientRepo,
		Medicines:     medicineRepo,
		Prescriptions: prescriptionRepo,
		Dispenses:     dispenseRepo,
		Store:         objStore,
		Cache:         ttlCache,
		Signer:        auth.NewShareSigner(cfg.Auth.ShareSecret),
		OCR:           tesseract.New(cfg.OCR.OCRLanguages()...),
		BaseURL:       cfg.Server.PublicBaseURL,
		HospitalName:  cfg.Server.HospitalName,
		InvoiceFont:   loadInvoiceFont(cfg.Invoice.FontPath, log),
		Location:      loc,
		Logger:        log,
	})
	reportSvc := service.NewReportService(dispenseRepo, loc)

	var jobOpts []jobs.Option
	if mem, ok := ttlCache.(jobs.Purger); ok {
		jobOpts = append(jobOpts, jobs.WithCachePurge(mem))
	}
	scheduler, err := jobs.NewScheduler(otpRepo, medicineRepo, log, loc, jobOpts...)
	if err != nil {
		log.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.ProjectName,
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	// Register global middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, handlers.Deps{
		DB:           db,
		Auth:         authSvc,
		OTP:          otpSvc,
		Patients:     patientSvc,
		Doctors:      doctorSvc,
		Pharmacy:     pharmacySvc,
		Reports:      reportSvc,
		Sessions:     sessions,
		Limiter:      middleware.NewRateLimiter(otpPerMinute, otpBurst),
		ServiceName:  cfg.Server.ProjectName,
		Version:      version,
		HospitalName: cfg.Server.HospitalName,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("http shutdown", zap.Error(err))
		}
		if err := scheduler.Stop(shutdownCtx); err != nil {
			log.Error("scheduler shutdown", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("addr", cfg.Server.Addr()), zap.String("version", version))
	if err := app.Listen(cfg.Server.Addr()); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// newStorage uses MinIO when configured and keeps objects in memory otherwise.
func newStorage(cfg *config.AppConfig, log *zap.Logger) storage.Storage {
	if cfg.MinIO.Endpoint == "" {
		log.Warn("MINIO_ENDPOINT is not set, storing files in memory")
		return storage.NewMemory(cfg.Server.PublicBaseURL)
	}
	s, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}
	return s
}

// newCache uses Redis when configured and an in-process cache otherwise.
func newCache(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) cache.Cache {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR is not set, using in-process cache")
		return cache.NewMemory()
	}
	c, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	return c
}

// loadInvoiceFont reads the UTF-8 invoice font. A missing file falls back to the core PDF font.
func loadInvoiceFont(path string, log *zap.Logger) []byte {
	if path == "" {
		return nil
	}
	font, err := os.ReadFile(path)
	if err != nil {
		log.Warn("invoice font unavailable, using core font", zap.String("path", path), zap.Error(err))
		return nil
	}
	return font
}
