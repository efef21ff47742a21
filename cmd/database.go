package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal"
	"github.com/frahmantamala/clinic-management/internal/app"
	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlDriver is the database/sql driver name gorm's postgres dialector
// registers through pgx. sqlx uses it to pick bind variables.
const sqlDriver = "pgx"

// initDB registers the PHI serializer and opens the pool. The serializer
// must exist before gorm parses any model schema.
func initDB(cfg *internal.Config, log *slog.Logger) (*gorm.DB, *fieldcrypt.Cipher, error) {
	cipher, err := app.SetupEncryption(cfg.Encryption, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up encryption: %w", err)
	}

	level := gormlogger.Warn
	if cfg.Env == "production" {
		level = gormlogger.Error
	}
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.Database.Source}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// verify connection; close the pool on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, cipher, nil
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Database close error", "error", err)
	}
}
