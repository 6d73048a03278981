package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mondostudio/mondo/backend/internal/content"
	"github.com/mondostudio/mondo/backend/internal/language"
)

type fakeStore struct {
	posts    []content.ResolvedPost
	existing map[string]bool
	upserts  []storedUpsert
}

type storedUpsert struct {
	postID   int64
	language language.Code
	override content.Override
}

func (f *fakeStore) ListPosts(_ context.Context, _ language.Code) ([]content.ResolvedPost, error) {
	return f.posts, nil
}

func (f *fakeStore) PostTranslationExists(_ context.Context, postID int64, lang language.Code) (bool, error) {
	return f.existing[translationKey(postID, lang)], nil
}

func (f *fakeStore) UpsertPostTranslation(_ context.Context, postID int64, lang language.Code, override content.Override) error {
	f.upserts = append(f.upserts, storedUpsert{postID: postID, language: lang, override: override})
	return nil
}

func translationKey(postID int64, lang language.Code) string {
	return fmt.Sprintf("%s/%d", lang, postID)
}

func strPtr(value string) *string {
	return &value
}

func newTranslationServer(t *testing.T, translations map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Query  string `json:"q"`
			Target string `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		translated, ok := translations[request.Query]
		if !ok {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if err := json.NewEncoder(w).Encode(map[string]string{"translatedText": translated}); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	}))
}

func newTestService(t *testing.T, store *fakeStore, server *httptest.Server) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{
		Store:  store,
		Client: NewClient(ClientConfig{APIURL: server.URL}),
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service
}

func TestClientTranslates(t *testing.T) {
	server := newTranslationServer(t, map[string]string{"Hello": "Hola"})
	defer server.Close()

	client := NewClient(ClientConfig{APIURL: server.URL})
	translated, err := client.Translate(context.Background(), "Hello", language.English, language.Spanish)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if translated != "Hola" {
		t.Fatalf("expected Hola, got %q", translated)
	}
}

func TestClientSkipsEmptyText(t *testing.T) {
	client := NewClient(ClientConfig{APIURL: "http://localhost:1"})
	translated, err := client.Translate(context.Background(), "   ", language.English, language.Spanish)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if translated != "   " {
		t.Fatalf("expected input echoed back, got %q", translated)
	}
}

func TestFillMissingStoresTranslations(t *testing.T) {
	server := newTranslationServer(t, map[string]string{
		"Hello": "Hola",
		"World": "Mundo",
	})
	defer server.Close()

	store := &fakeStore{
		posts: []content.ResolvedPost{
			{ID: 1, Slug: "welcome", Title: "Hello", Content: "World", CreatedAt: time.Unix(1700000000, 0)},
		},
		existing: map[string]bool{},
	}
	service := newTestService(t, store, server)

	report, err := service.FillMissing(context.Background(), []language.Code{language.Spanish})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 1 || report.FellBack != 0 {
		t.Fatalf("unexpected report: %#v", report)
	}
	if len(store.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(store.upserts))
	}
	stored := store.upserts[0]
	if stored.language != language.Spanish {
		t.Fatalf("unexpected language %q", stored.language)
	}
	if stored.override.Title == nil || *stored.override.Title != "Hola" {
		t.Fatalf("unexpected title %v", stored.override.Title)
	}
	if stored.override.Content == nil || *stored.override.Content != "Mundo" {
		t.Fatalf("unexpected content %v", stored.override.Content)
	}
	if stored.override.Excerpt != nil {
		t.Fatalf("expected nil excerpt for post without one")
	}
}

func TestFillMissingFallsBackToOriginalTextOnFailure(t *testing.T) {
	// Server knows none of the strings, so every call fails.
	server := newTranslationServer(t, map[string]string{})
	defer server.Close()

	store := &fakeStore{
		posts: []content.ResolvedPost{
			{ID: 1, Slug: "welcome", Title: "Hello", Content: "World", Excerpt: strPtr("intro")},
		},
		existing: map[string]bool{},
	}
	service := newTestService(t, store, server)

	report, err := service.FillMissing(context.Background(), []language.Code{language.French})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 1 || report.FellBack != 1 {
		t.Fatalf("unexpected report: %#v", report)
	}

	stored := store.upserts[0]
	if stored.override.Title == nil || *stored.override.Title != "Hello" {
		t.Fatalf("expected original title fallback, got %v", stored.override.Title)
	}
	if stored.override.Excerpt == nil || *stored.override.Excerpt != "intro" {
		t.Fatalf("expected original excerpt fallback, got %v", stored.override.Excerpt)
	}
}

func TestFillMissingSkipsExistingAndSourceLanguage(t *testing.T) {
	server := newTranslationServer(t, map[string]string{"Hello": "Hola", "World": "Mundo"})
	defer server.Close()

	store := &fakeStore{
		posts: []content.ResolvedPost{
			{ID: 1, Slug: "welcome", Title: "Hello", Content: "World"},
		},
		existing: map[string]bool{
			translationKey(1, language.Spanish): true,
		},
	}
	service := newTestService(t, store, server)

	report, err := service.FillMissing(context.Background(), []language.Code{language.Spanish, language.English})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 0 {
		t.Fatalf("expected nothing filled, got %d", report.Filled)
	}
	if report.Skipped != 2 {
		t.Fatalf("expected two skips, got %d", report.Skipped)
	}
	if len(store.upserts) != 0 {
		t.Fatalf("expected no upserts, got %d", len(store.upserts))
	}
}
