package content

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/mondostudio/mondo/backend/internal/language"
	"gorm.io/gorm"
)

func strPtr(value string) *string {
	return &value
}

func mustLanguage(t *testing.T, value string) language.Code {
	t.Helper()
	code, err := language.Normalize(value)
	if err != nil {
		t.Fatalf("unexpected language error: %v", err)
	}
	return code
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:mondo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Post{}, &PostTranslation{}, &PortfolioItem{}, &PortfolioTranslation{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	clock := func() time.Time { return time.Unix(1700000600, 0).UTC() }

	service, err := NewService(ServiceConfig{
		Database: db,
		Clock:    clock,
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service, db
}

func seedPost(t *testing.T, db *gorm.DB, post Post) Post {
	t.Helper()
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func seedPortfolioItem(t *testing.T, db *gorm.DB, item PortfolioItem) PortfolioItem {
	t.Helper()
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed portfolio item: %v", err)
	}
	return item
}
