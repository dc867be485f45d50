package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig holds HTTP server and public URL settings.
type ServerConfig struct {
	Host          string `envconfig:"HOST" default:"0.0.0.0"`
	Port          string `envconfig:"PORT" default:"8000"`
	ProjectName   string `envconfig:"PROJECT_NAME" default:"Smart QR Health API"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8000"`
	Timezone      string `envconfig:"APP_TIMEZONE" default:"UTC"`
	HospitalName  string `envconfig:"HOSPITAL_NAME" default:"Smart QR Health Hospital"`
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"smart-qr-health"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// RedisConfig selects the TTL cache backend. An empty Addr keeps the cache in process.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AuthConfig holds session signing secrets and the role credentials that are not stored in the database.
type AuthConfig struct {
	SessionSecret     string        `envconfig:"SESSION_SECRET"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ShareSecret       string        `envconfig:"PHARMADESK_SECRET"`
	ReceptionUsername string        `envconfig:"RECEPTION_USERNAME" default:"reception"`
	ReceptionPassword string        `envconfig:"RECEPTION_PASSWORD"`
	AdminUsername     string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword     string        `envconfig:"ADMIN_PASSWORD"`
	PharmacyUsername  string        `envconfig:"PHARMADESK_FALLBACK_USER"`
	PharmacyPassword  string        `envconfig:"PHARMADESK_FALLBACK_PASSWORD"`
}

// OCRConfig holds Tesseract settings.
type OCRConfig struct {
	Languages string `envconfig:"OCR_LANGUAGES" default:"eng"`
}

// InvoiceConfig holds bill PDF settings.
type InvoiceConfig struct {
	// FontPath points at a UTF-8 TrueType font used for invoice text. Empty keeps the core PDF font.
	FontPath string `envconfig:"INVOICE_FONT"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Auth     AuthConfig
	OCR      OCRConfig
	Invoice  InvoiceConfig
	Logging  LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.PublicBaseURL = strings.TrimRight(cfg.Server.PublicBaseURL, "/")
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Location resolves the configured timezone, falling back to UTC.
func (c ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OCRLanguages splits OCR_LANGUAGES on '+' or ',' (Tesseract style "eng+hin" is accepted).
func (c OCRConfig) OCRLanguages() []string {
	fields := strings.FieldsFunc(c.Languages, func(r rune) bool { return r == '+' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
