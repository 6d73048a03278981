package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mondostudio/mondo/backend/internal/contact"
	"github.com/mondostudio/mondo/backend/internal/content"
	"github.com/mondostudio/mondo/backend/internal/language"
	"github.com/mondostudio/mondo/backend/internal/uistrings"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestIDHeader = "X-Request-ID"
const requestIDContextKey = "mondo_request_id"

var (
	errMissingContentService = errors.New("content service dependency required")
	errMissingContactService = errors.New("contact service dependency required")
	errMissingStringCatalog  = errors.New("string catalog dependency required")
	errMissingDatabase       = errors.New("database dependency required")
)

// Dependencies wires the services the router serves.
type Dependencies struct {
	ContentService *content.Service
	ContactService *contact.Service
	Strings        *uistrings.Catalog
	Database       *gorm.DB
	CORSOrigins    []string
	Logger         *zap.Logger
}

// NewHTTPHandler builds the API router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.ContentService == nil {
		return nil, errMissingContentService
	}
	if deps.ContactService == nil {
		return nil, errMissingContactService
	}
	if deps.Strings == nil {
		return nil, errMissingStringCatalog
	}
	if deps.Database == nil {
		return nil, errMissingDatabase
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		contentService: deps.ContentService,
		contactService: deps.ContactService,
		strings:        deps.Strings,
		db:             deps.Database,
		logger:         logger,
	}

	router.GET("/", handler.handleRoot)
	router.GET("/health", handler.handleHealth)

	api := router.Group("/api")
	api.GET("/posts", handler.handleListPosts)
	api.GET("/posts/:id", handler.handleGetPostByID)
	api.GET("/posts/slug/:slug", handler.handleGetPostBySlug)
	api.POST("/posts", handler.handleCreatePost)
	api.PUT("/posts/:id/translations/:language", handler.handleUpsertPostTranslation)

	api.GET("/portfolio", handler.handleListPortfolio)
	api.GET("/portfolio/:id", handler.handleGetPortfolioByID)
	api.PUT("/portfolio/:id/translations/:language", handler.handleUpsertPortfolioTranslation)

	api.POST("/contact", handler.handleContact)
	api.GET("/strings", handler.handleStrings)

	return router, nil
}

type httpHandler struct {
	contentService *content.Service
	contactService *contact.Service
	strings        *uistrings.Catalog
	db             *gorm.DB
	logger         *zap.Logger
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func (h *httpHandler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Mondo API Server",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":     "/health",
			"posts":      "/api/posts",
			"postById":   "/api/posts/:id",
			"postBySlug": "/api/posts/slug/:slug",
			"portfolio":  "/api/portfolio",
			"strings":    "/api/strings",
		},
	})
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type postPayload struct {
	ID        int64   `json:"id"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Excerpt   *string `json:"excerpt"`
	Author    *string `json:"author"`
	CreatedAt string  `json:"created_at"`
	Language  string  `json:"language,omitempty"`
}

func newPostPayload(post content.ResolvedPost) postPayload {
	return postPayload{
		ID:        post.ID,
		Slug:      post.Slug,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Author:    post.Author,
		CreatedAt: post.CreatedAt.UTC().Format(time.RFC3339),
		Language:  post.Language.String(),
	}
}

type portfolioPayload struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ImageURL     *string `json:"image_url"`
	URL          *string `json:"url"`
	Category     string  `json:"category"`
	Technologies *string `json:"technologies"`
	CreatedAt    string  `json:"created_at"`
	Language     string  `json:"language,omitempty"`
}

func newPortfolioPayload(item content.ResolvedPortfolioItem) portfolioPayload {
	return portfolioPayload{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		ImageURL:     item.ImageURL,
		URL:          item.ProjectURL,
		Category:     item.Category,
		Technologies: item.Technologies,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		Language:     item.Language.String(),
	}
}

func (h *httpHandler) handleListPosts(c *gin.Context) {
	lang, ok := h.requestLanguage(c)
	if !ok {
		return
	}

	posts, err := h.contentService.ListPosts(c.Request.Context(), lang)
	if err != nil {
		h.respondError(c, err)
		return
	}

	payload := make([]postPayload, 0, len(posts))
	for _, post := range posts {
		payload = append(payload, newPostPayload(post))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *httpHandler) handleGetPostByID(c *gin.Context) {
	id, ok := h.numericParam(c, "id")
	if !ok {
		return
	}
	lang, ok := h.requestLanguage(c)
	if !ok {
		return
	}

	post, err := h.contentService.GetPostByID(c.Request.Context(), id, lang)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostPayload(post))
}

func (h *httpHandler) handleGetPostBySlug(c *gin.Context) {
	lang, ok := h.requestLanguage(c)
	if !ok {
		return
	}

	post, err := h.contentService.GetPostBySlug(c.Request.Context(), c.Param("slug"), lang)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostPayload(post))
}

type createPostPayload struct {
	Slug    string  `json:"slug"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Excerpt *string `json:"excerpt"`
	Author  *string `json:"author"`
}

func (h *httpHandler) handleCreatePost(c *gin.Context) {
	var request createPostPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	post, err := h.contentService.CreatePost(c.Request.Context(), content.CreatePostInput{
		Slug:    request.Slug,
		Title:   request.Title,
		Content: request.Content,
		Excerpt: request.Excerpt,
		Author:  request.Author,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPostPayload(content.ResolvedPost{
		ID:        post.ID,
		Slug:      post.Slug,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Author:    post.Author,
		CreatedAt: post.CreatedAt,
	}))
}

type translationPayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Excerpt *string `json:"excerpt"`
}

func (h *httpHandler) handleUpsertPostTranslation(c *gin.Context) {
	id, ok := h.numericParam(c, "id")
	if !ok {
		return
	}
	lang, err := language.Normalize(c.Param("language"))
	if err != nil || lang.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_language"})
		return
	}

	var request translationPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	err = h.contentService.UpsertPostTranslation(c.Request.Context(), id, lang, content.Override{
		Title:   request.Title,
		Content: request.Content,
		Excerpt: request.Excerpt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListPortfolio(c *gin.Context) {
	lang, ok := h.requestLanguage(c)
	if !ok {
		return
	}

	items, err := h.contentService.ListPortfolio(c.Request.Context(), c.Query("category"), lang)
	if err != nil {
		h.respondError(c, err)
		return
	}

	payload := make([]portfolioPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, newPortfolioPayload(item))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *httpHandler) handleGetPortfolioByID(c *gin.Context) {
	id, ok := h.numericParam(c, "id")
	if !ok {
		return
	}
	lang, ok := h.requestLanguage(c)
	if !ok {
		return
	}

	item, err := h.contentService.GetPortfolioByID(c.Request.Context(), id, lang)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPortfolioPayload(item))
}

func (h *httpHandler) handleUpsertPortfolioTranslation(c *gin.Context) {
	id, ok := h.numericParam(c, "id")
	if !ok {
		return
	}
	lang, err := language.Normalize(c.Param("language"))
	if err != nil || lang.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_language"})
		return
	}

	var request translationPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	err = h.contentService.UpsertPortfolioTranslation(c.Request.Context(), id, lang, content.Override{
		Title:   request.Title,
		Content: request.Content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type contactPayload struct {
	Name         string  `json:"name"`
	Organization *string `json:"organization"`
	Email        string  `json:"email"`
	Subject      *string `json:"subject"`
	Message      *string `json:"message"`
	SendCopy     bool    `json:"sendCopy"`
}

func (h *httpHandler) handleContact(c *gin.Context) {
	var request contactPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request"})
		return
	}

	submission, err := h.contactService.Submit(c.Request.Context(), contact.SubmitInput{
		Name:         request.Name,
		Organization: request.Organization,
		Email:        request.Email,
		Subject:      request.Subject,
		Message:      request.Message,
		SendCopy:     request.SendCopy,
	})
	if err != nil {
		if errors.Is(err, contact.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request"})
			return
		}
		h.logger.Error("contact submission failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDContextKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "submission_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": submission.ID})
}

func (h *httpHandler) handleStrings(c *gin.Context) {
	lang, ok := h.requestLanguage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.strings.Table(lang))
}

// requestLanguage normalizes the optional ?language= query parameter. A false
// return means a response has already been written.
func (h *httpHandler) requestLanguage(c *gin.Context) (language.Code, bool) {
	lang, err := language.Normalize(c.Query("language"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_language"})
		return "", false
	}
	return lang, true
}

func (h *httpHandler) numericParam(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return value, true
}

func (h *httpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, content.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
	case errors.Is(err, content.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already_exists"})
	default:
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDContextKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
