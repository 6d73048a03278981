package server

import (
	"net/http"
	"testing"

	"github.com/mondostudio/mondo/backend/internal/contact"
)

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodGet, "/health", nil)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	payload := decodeJSON[map[string]any](t, recorder)
	if payload["status"] != "healthy" || payload["database"] != "connected" {
		t.Fatalf("unexpected health payload: %v", payload)
	}
}

func TestRootEndpointListsRoutes(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodGet, "/", nil)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	payload := decodeJSON[map[string]any](t, recorder)
	if payload["message"] != "Mondo API Server" {
		t.Fatalf("unexpected root payload: %v", payload)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodGet, "/health", nil)
	if recorder.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id header")
	}
}

func TestContactEndpointStoresSubmission(t *testing.T) {
	handler, db := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodPost, "/api/contact", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"message":  "Hello there",
		"sendCopy": true,
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	payload := decodeJSON[map[string]any](t, recorder)
	if payload["success"] != true {
		t.Fatalf("unexpected payload: %v", payload)
	}

	var count int64
	if err := db.Model(&contact.Submission{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count submissions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored submission, got %d", count)
	}
}

func TestContactEndpointRejectsInvalidSubmission(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodPost, "/api/contact", map[string]any{"name": "Ada"})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestStringsEndpointServesTable(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodGet, "/api/strings?language=eng", nil)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	table := decodeJSON[map[string]string](t, recorder)
	if table["inicio"] != "Home" {
		t.Fatalf("expected english strings for legacy code, got %v", table)
	}
}

func TestStringsEndpointDefaultsToSpanish(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := performRequest(t, handler, http.MethodGet, "/api/strings", nil)

	table := decodeJSON[map[string]string](t, recorder)
	if table["inicio"] != "Inicio" {
		t.Fatalf("expected spanish default, got %v", table)
	}
}
