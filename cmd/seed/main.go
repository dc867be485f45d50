package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/config"
	"github.com/amarshaik012/smart-qr-health/internal/database"
	"github.com/amarshaik012/smart-qr-health/internal/database/migration"
	"github.com/amarshaik012/smart-qr-health/internal/logging"
	"github.com/amarshaik012/smart-qr-health/internal/repository/postgres"
	"github.com/amarshaik012/smart-qr-health/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logging.New(cfg.Logging, cfg.Server.Location())
	if err != nil {
		log = logging.NewDefault()
	}
	defer log.Sync()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Error("migration failed", zap.Error(err))
		os.Exit(1)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	if _, err := seed.Medicines(ctx, postgres.NewMedicinePostgres(db), rnd, log); err != nil {
		log.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}
