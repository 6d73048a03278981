// Package translator fills missing post translations through a LibreTranslate
// instance. Machine output is a starting point for human review; a failed
// translation call falls back to the original text rather than failing the
// run.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mondostudio/mondo/backend/internal/content"
	"github.com/mondostudio/mondo/backend/internal/language"
	"go.uber.org/zap"
)

// DefaultAPIURL is the public LibreTranslate endpoint. Production setups
// should point at a self-hosted instance; the public one is rate limited.
const DefaultAPIURL = "https://libretranslate.com/translate"

const defaultRequestTimeout = 30 * time.Second

var errMissingStore = errors.New("content store is required")

// Client calls the LibreTranslate HTTP API.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// ClientConfig carries the LibreTranslate endpoint settings.
type ClientConfig struct {
	APIURL     string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient constructs a LibreTranslate client.
func NewClient(cfg ClientConfig) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{apiURL: apiURL, apiKey: cfg.APIKey, httpClient: httpClient}
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate converts text from the source language to the target language.
func (c *Client) Translate(ctx context.Context, text string, source, target language.Code) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	payload, err := json.Marshal(translateRequest{
		Query:  text,
		Source: source.String(),
		Target: target.String(),
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("translator: encoding request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("translator: building request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("translator: calling translation api: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translator: translation api returned status %d", response.StatusCode)
	}

	var decoded translateResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("translator: decoding response: %w", err)
	}
	return decoded.TranslatedText, nil
}

// ContentStore is the slice of the content service the filler needs.
type ContentStore interface {
	ListPosts(ctx context.Context, lang language.Code) ([]content.ResolvedPost, error)
	PostTranslationExists(ctx context.Context, postID int64, lang language.Code) (bool, error)
	UpsertPostTranslation(ctx context.Context, postID int64, lang language.Code, override content.Override) error
}

// ServiceConfig describes the dependencies for the translation filler.
type ServiceConfig struct {
	Store      ContentStore
	Client     *Client
	SourceLang language.Code
	Logger     *zap.Logger
	// Pause between posts keeps the public API's rate limiter happy.
	Pause time.Duration
}

// Service walks the post table and fills translation gaps.
type Service struct {
	store  ContentStore
	client *Client
	source language.Code
	logger *zap.Logger
	pause  time.Duration
}

// NewService constructs the translation filler.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	client := cfg.Client
	if client == nil {
		client = NewClient(ClientConfig{})
	}
	source := cfg.SourceLang
	if source.IsZero() {
		source = language.English
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  cfg.Store,
		client: client,
		source: source,
		logger: logger,
		pause:  cfg.Pause,
	}, nil
}

// RunReport summarizes one filler run.
type RunReport struct {
	RunID     string
	Filled    int
	Skipped   int
	FellBack  int
	Languages []language.Code
}

// FillMissing translates every post into each target language that has no
// stored override yet. Existing rows are never touched.
func (s *Service) FillMissing(ctx context.Context, targets []language.Code) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString(), Languages: targets}
	runLogger := s.logger.With(zap.String("run_id", report.RunID))

	posts, err := s.store.ListPosts(ctx, "")
	if err != nil {
		return report, err
	}

	for _, post := range posts {
		for _, target := range targets {
			if target.IsZero() || target == s.source {
				report.Skipped++
				continue
			}

			exists, err := s.store.PostTranslationExists(ctx, post.ID, target)
			if err != nil {
				return report, err
			}
			if exists {
				report.Skipped++
				continue
			}

			override, fellBack := s.translatePost(ctx, post, target, runLogger)
			if err := s.store.UpsertPostTranslation(ctx, post.ID, target, override); err != nil {
				return report, err
			}
			report.Filled++
			if fellBack {
				report.FellBack++
			}
			runLogger.Info("translation stored",
				zap.Int64("post_id", post.ID),
				zap.String("language", target.String()),
				zap.Bool("fallback_used", fellBack))

			if s.pause > 0 {
				select {
				case <-ctx.Done():
					return report, ctx.Err()
				case <-time.After(s.pause):
				}
			}
		}
	}
	return report, nil
}

// translatePost converts the translatable fields, substituting the original
// text for any field the API fails on.
func (s *Service) translatePost(ctx context.Context, post content.ResolvedPost, target language.Code, logger *zap.Logger) (content.Override, bool) {
	fellBack := false

	translate := func(text string) string {
		translated, err := s.client.Translate(ctx, text, s.source, target)
		if err != nil {
			logger.Warn("translation failed, keeping original text",
				zap.Int64("post_id", post.ID),
				zap.String("language", target.String()),
				zap.Error(err))
			fellBack = true
			return text
		}
		return translated
	}

	title := translate(post.Title)
	body := translate(post.Content)
	override := content.Override{Title: &title, Content: &body}
	if post.Excerpt != nil {
		excerpt := translate(*post.Excerpt)
		override.Excerpt = &excerpt
	}
	return override, fellBack
}
