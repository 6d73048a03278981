// Package database opens the content store and keeps its schema current.
package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"github.com/mondostudio/mondo/backend/internal/config"
	"github.com/mondostudio/mondo/backend/internal/contact"
	"github.com/mondostudio/mondo/backend/internal/content"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open establishes the database connection, applies pool limits, and performs
// schema migrations. Postgres is the primary driver; sqlite backs local
// development.
func Open(cfg config.AppConfig, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.AutoMigrate(
		&content.Post{},
		&content.PostTranslation{},
		&content.PortfolioItem{},
		&content.PortfolioTranslation{},
		&contact.Submission{},
		&migrationRecord{},
	); err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized",
			zap.String("driver", cfg.DatabaseDriver),
			zap.Int("max_open_conns", cfg.MaxOpenConns))
	}

	return db, nil
}
