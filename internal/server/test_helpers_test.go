package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/mondostudio/mondo/backend/internal/contact"
	"github.com/mondostudio/mondo/backend/internal/content"
	"github.com/mondostudio/mondo/backend/internal/uistrings"
	"gorm.io/gorm"
)

func newTestHandler(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&content.Post{}, &content.PostTranslation{}, &content.PortfolioItem{}, &content.PortfolioTranslation{}, &contact.Submission{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	contentService, err := content.NewService(content.ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to build content service: %v", err)
	}
	contactService, err := contact.NewService(contact.ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to build contact service: %v", err)
	}
	catalog, err := uistrings.NewCatalog()
	if err != nil {
		t.Fatalf("failed to build string catalog: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		ContentService: contentService,
		ContactService: contactService,
		Strings:        catalog,
		Database:       db,
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler, db
}

func performRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeJSON[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var decoded T
	if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return decoded
}

func strPtr(value string) *string {
	return &value
}

func seedPost(t *testing.T, db *gorm.DB, post content.Post) content.Post {
	t.Helper()
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func seedPortfolioItem(t *testing.T, db *gorm.DB, item content.PortfolioItem) content.PortfolioItem {
	t.Helper()
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed portfolio item: %v", err)
	}
	return item
}
