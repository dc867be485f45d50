package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable marks an installed schema.
const sentinelTable = "patients"

var steps = []migrationStep{
	{
		Name: "create_table_doctors",
		SQL: `CREATE TABLE IF NOT EXISTS doctors (
  id             BIGSERIAL   PRIMARY KEY,
  username       TEXT        NOT NULL UNIQUE,
  name           TEXT        NOT NULL,
  department     TEXT        NOT NULL DEFAULT '',
  specialization TEXT        NOT NULL DEFAULT '',
  license_no     TEXT        NOT NULL DEFAULT '',
  password_hash  TEXT        NOT NULL,
  status         TEXT        NOT NULL DEFAULT 'pending',
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_patients",
		SQL: `CREATE TABLE IF NOT EXISTS patients (
  id              BIGSERIAL   PRIMARY KEY,
  patient_uid     VARCHAR(12) NOT NULL UNIQUE,
  name            TEXT        NOT NULL,
  phone           VARCHAR(10) NOT NULL UNIQUE,
  email           TEXT        NOT NULL DEFAULT '',
  gender          TEXT        NOT NULL DEFAULT '',
  dob             DATE,
  weight          TEXT        NOT NULL DEFAULT '',
  height          TEXT        NOT NULL DEFAULT '',
  assigned_doctor TEXT        NOT NULL DEFAULT '',
  doctor_id       BIGINT      REFERENCES doctors (id) ON DELETE SET NULL,
  status          TEXT        NOT NULL DEFAULT 'waiting',
  qr_filename     TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_patients_doctor_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_patients_doctor_id ON patients (doctor_id);`,
	},
	{
		Name: "create_index_patients_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_patients_created_at ON patients (created_at);`,
	},
	{
		Name: "create_table_medicines",
		SQL: `CREATE TABLE IF NOT EXISTS medicines (
  id            BIGSERIAL     PRIMARY KEY,
  name          TEXT          NOT NULL,
  strength      TEXT          NOT NULL DEFAULT '',
  form          TEXT          NOT NULL DEFAULT '',
  mrp           NUMERIC(10,2) NOT NULL DEFAULT 0,
  tax_pct       NUMERIC(5,2)  NOT NULL DEFAULT 0,
  stock_qty     INTEGER       NOT NULL DEFAULT 0,
  reorder_level INTEGER       NOT NULL DEFAULT 0,
  batch_no      TEXT          NOT NULL DEFAULT '',
  expiry_date   TEXT          NOT NULL DEFAULT '',
  manufacturer  TEXT          NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_medicines_lower_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_medicines_lower_name ON medicines (lower(name));`,
	},
	{
		Name: "create_table_prescriptions",
		SQL: `CREATE TABLE IF NOT EXISTS prescriptions (
  id          BIGSERIAL   PRIMARY KEY,
  patient_id  BIGINT      NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
  doctor_name TEXT        NOT NULL DEFAULT '',
  diagnosis   TEXT        NOT NULL DEFAULT '',
  notes       TEXT        NOT NULL DEFAULT '',
  medicines   JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_prescriptions_patient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_prescriptions_patient_id ON prescriptions (patient_id, created_at DESC);`,
	},
	{
		Name: "create_table_dispenses",
		SQL: `CREATE TABLE IF NOT EXISTS dispenses (
  id           BIGSERIAL     PRIMARY KEY,
  patient_id   BIGINT        NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
  total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
  pharmacist   TEXT          NOT NULL DEFAULT '',
  payment_mode TEXT          NOT NULL DEFAULT 'cash',
  notes        TEXT          NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_dispenses_patient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dispenses_patient_id ON dispenses (patient_id, created_at DESC);`,
	},
	{
		Name: "create_table_dispense_items",
		SQL: `CREATE TABLE IF NOT EXISTS dispense_items (
  id           BIGSERIAL     PRIMARY KEY,
  dispense_id  BIGINT        NOT NULL REFERENCES dispenses (id) ON DELETE CASCADE,
  medicine_id  BIGINT        NOT NULL REFERENCES medicines (id),
  label        TEXT          NOT NULL DEFAULT '',
  batch_no     TEXT          NOT NULL DEFAULT '',
  expiry_date  TEXT          NOT NULL DEFAULT '',
  qty          INTEGER       NOT NULL CHECK (qty > 0),
  unit_price   NUMERIC(10,2) NOT NULL DEFAULT 0,
  discount_pct NUMERIC(5,2)  NOT NULL DEFAULT 0,
  tax_pct      NUMERIC(5,2)  NOT NULL DEFAULT 0,
  notes        TEXT          NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_dispense_items_medicine_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dispense_items_medicine_id ON dispense_items (medicine_id);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id          BIGSERIAL     PRIMARY KEY,
  patient_id  BIGINT        REFERENCES patients (id) ON DELETE SET NULL,
  doctor_id   BIGINT        REFERENCES doctors (id) ON DELETE SET NULL,
  amount      NUMERIC(10,2) NOT NULL DEFAULT 0,
  status      TEXT          NOT NULL DEFAULT 'pending',
  method      TEXT          NOT NULL DEFAULT '',
  reference   TEXT          NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_otp_logs",
		SQL: `CREATE TABLE IF NOT EXISTS otp_logs (
  id         BIGSERIAL   PRIMARY KEY,
  phone      VARCHAR(10) NOT NULL,
  otp        VARCHAR(6)  NOT NULL,
  verified   BOOLEAN     NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_otp_logs_phone",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_otp_logs_phone ON otp_logs (phone, created_at DESC);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL   PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'pharmacist',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db migration check", zap.String("event", "db_migration_check"), zap.String("status", "starting"))

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('public.%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db migration failed",
			zap.String("event", "db_migration_failed"),
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			zap.String("event", "db_migration_skip"),
			zap.String("status", "success"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db migration start", zap.String("event", "db_migration_start"), zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db migration failed",
				zap.String("event", "db_migration_failed"),
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db migration step",
			zap.String("event", "db_migration_step"),
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db migration success",
		zap.String("event", "db_migration_success"),
		zap.String("status", "success"),
		zap.Int("steps", len(steps)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
