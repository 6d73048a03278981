package database

import (
	"errors"
	"time"

	"github.com/mondostudio/mondo/backend/internal/language"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationNormalizeLanguageCodes = "2026-08-20_normalize_translation_language_codes"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationNormalizeLanguageCodes, apply: normalizeTranslationLanguageCodes},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// normalizeTranslationLanguageCodes rewrites the legacy three-letter codes
// that older import scripts stored ("spa", "eng", "jap", ...) to the
// canonical codes the resolver queries by.
func normalizeTranslationLanguageCodes(db *gorm.DB) error {
	legacy := map[string]language.Code{
		"spa": language.Spanish,
		"eng": language.English,
		"jap": language.Japanese,
		"jp":  language.Japanese,
		"por": language.Portuguese,
		"fre": language.French,
	}

	for raw, canonical := range legacy {
		// A canonical row wins over its legacy duplicate; drop the duplicate
		// before renaming so the composite key stays unique.
		if err := db.Exec(
			"DELETE FROM post_translations WHERE language = ? AND post_id IN (SELECT post_id FROM post_translations WHERE language = ?)",
			raw, canonical.String(),
		).Error; err != nil {
			return err
		}
		if err := db.Exec(
			"UPDATE post_translations SET language = ? WHERE language = ?",
			canonical.String(), raw,
		).Error; err != nil {
			return err
		}
		if err := db.Exec(
			"DELETE FROM portfolio_translations WHERE language = ? AND item_id IN (SELECT item_id FROM portfolio_translations WHERE language = ?)",
			raw, canonical.String(),
		).Error; err != nil {
			return err
		}
		if err := db.Exec(
			"UPDATE portfolio_translations SET language = ? WHERE language = ?",
			canonical.String(), raw,
		).Error; err != nil {
			return err
		}
	}
	return nil
}
