package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mondostudio/mondo/backend/internal/language"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	errMissingTitle    = errors.New("title is required")
	errMissingContent  = errors.New("content is required")
	errMissingLanguage = errors.New("language is required")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew        = "content.service.new"
	opListPosts         = "content.list_posts"
	opGetPost           = "content.get_post"
	opCreatePost        = "content.create_post"
	opUpsertTranslation = "content.upsert_translation"
)

const defaultQueryTimeout = 10 * time.Second

// ServiceConfig describes the dependencies for the content service.
type ServiceConfig struct {
	Database     *gorm.DB
	Clock        func() time.Time
	Logger       *zap.Logger
	QueryTimeout time.Duration
}

// Service serves reads and writes for posts and portfolio items with
// per-language fallback resolution.
type Service struct {
	db           *gorm.DB
	clock        func() time.Time
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewService constructs the content service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", ErrStoreFailure, errMissingDatabase)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &Service{
		db:           cfg.Database,
		clock:        clock,
		logger:       logger,
		queryTimeout: timeout,
	}, nil
}

// CreatePostInput carries the fields accepted on post creation.
type CreatePostInput struct {
	Slug    string
	Title   string
	Content string
	Excerpt *string
	Author  *string
}

// ListPosts returns all posts newest first, resolved for the requested
// language. The empty code serves the original-language rows verbatim.
func (s *Service) ListPosts(ctx context.Context, lang language.Code) ([]ResolvedPost, error) {
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	var posts []Post
	if err := s.db.WithContext(queryCtx).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		s.logError(opListPosts, "query_failed", err)
		return nil, newServiceError(opListPosts, "query_failed", ErrStoreFailure, err)
	}

	if lang.IsZero() || len(posts) == 0 {
		resolved := make([]ResolvedPost, 0, len(posts))
		for _, post := range posts {
			resolved = append(resolved, resolvePost(post, nil, lang))
		}
		return resolved, nil
	}

	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	var translations []PostTranslation
	if err := s.db.WithContext(queryCtx).
		Where("language = ? AND post_id IN ?", lang.String(), ids).
		Find(&translations).Error; err != nil {
		s.logError(opListPosts, "translation_query_failed", err, zap.String("language", lang.String()))
		return nil, newServiceError(opListPosts, "translation_query_failed", ErrStoreFailure, err)
	}

	byPost := make(map[int64]PostTranslation, len(translations))
	for _, translation := range translations {
		byPost[translation.PostID] = translation
	}

	resolved := make([]ResolvedPost, 0, len(posts))
	for _, post := range posts {
		var override *PostTranslation
		if translation, ok := byPost[post.ID]; ok {
			override = &translation
		}
		resolved = append(resolved, resolvePost(post, override, lang))
	}
	return resolved, nil
}

// GetPostByID returns the resolved view of one post or ErrNotFound.
func (s *Service) GetPostByID(ctx context.Context, id int64, lang language.Code) (ResolvedPost, error) {
	if id <= 0 {
		return ResolvedPost{}, newServiceError(opGetPost, "invalid_id", ErrInvalidArgument, nil)
	}
	return s.getPost(ctx, "id = ?", id, lang)
}

// GetPostBySlug returns the resolved view of one post or ErrNotFound.
func (s *Service) GetPostBySlug(ctx context.Context, rawSlug string, lang language.Code) (ResolvedPost, error) {
	slug, err := NewSlug(rawSlug)
	if err != nil {
		return ResolvedPost{}, newServiceError(opGetPost, "invalid_slug", ErrInvalidArgument, err)
	}
	return s.getPost(ctx, "slug = ?", slug.String(), lang)
}

func (s *Service) getPost(ctx context.Context, condition string, value any, lang language.Code) (ResolvedPost, error) {
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	var post Post
	err := s.db.WithContext(queryCtx).Where(condition, value).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ResolvedPost{}, newServiceError(opGetPost, "not_found", ErrNotFound, nil)
	}
	if err != nil {
		s.logError(opGetPost, "query_failed", err)
		return ResolvedPost{}, newServiceError(opGetPost, "query_failed", ErrStoreFailure, err)
	}

	translation, err := s.postTranslation(queryCtx, post.ID, lang)
	if err != nil {
		return ResolvedPost{}, err
	}
	return resolvePost(post, translation, lang), nil
}

func (s *Service) postTranslation(ctx context.Context, postID int64, lang language.Code) (*PostTranslation, error) {
	if lang.IsZero() {
		return nil, nil
	}

	var translation PostTranslation
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND language = ?", postID, lang.String()).
		Take(&translation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logError(opGetPost, "translation_query_failed", err,
			zap.Int64("post_id", postID),
			zap.String("language", lang.String()))
		return nil, newServiceError(opGetPost, "translation_query_failed", ErrStoreFailure, err)
	}
	return &translation, nil
}

// PostTranslationExists reports whether an override row is already stored for
// the (post, language) pair.
func (s *Service) PostTranslationExists(ctx context.Context, postID int64, lang language.Code) (bool, error) {
	if postID <= 0 || lang.IsZero() {
		return false, newServiceError(opGetPost, "invalid_id", ErrInvalidArgument, nil)
	}

	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	var count int64
	err := s.db.WithContext(queryCtx).
		Model(&PostTranslation{}).
		Where("post_id = ? AND language = ?", postID, lang.String()).
		Count(&count).Error
	if err != nil {
		s.logError(opGetPost, "translation_count_failed", err, zap.Int64("post_id", postID))
		return false, newServiceError(opGetPost, "translation_count_failed", ErrStoreFailure, err)
	}
	return count > 0, nil
}

// CreatePost inserts a new post and returns the stored row, including the
// generated id and timestamp. A duplicate slug yields ErrConflict.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (Post, error) {
	slug, err := NewSlug(input.Slug)
	if err != nil {
		return Post{}, newServiceError(opCreatePost, "invalid_slug", ErrInvalidArgument, err)
	}
	if strings.TrimSpace(input.Title) == "" {
		return Post{}, newServiceError(opCreatePost, "missing_title", ErrInvalidArgument, errMissingTitle)
	}
	if strings.TrimSpace(input.Content) == "" {
		return Post{}, newServiceError(opCreatePost, "missing_content", ErrInvalidArgument, errMissingContent)
	}

	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	post := Post{
		Slug:      slug.String(),
		Title:     input.Title,
		Content:   input.Content,
		Excerpt:   input.Excerpt,
		Author:    input.Author,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.db.WithContext(queryCtx).Create(&post).Error; err != nil {
		if isDuplicateKey(err) {
			return Post{}, newServiceError(opCreatePost, "slug_conflict", ErrConflict, err)
		}
		s.logError(opCreatePost, "insert_failed", err, zap.String("slug", slug.String()))
		return Post{}, newServiceError(opCreatePost, "insert_failed", ErrStoreFailure, err)
	}
	return post, nil
}

// UpsertPostTranslation writes or overwrites the override row for the exact
// (post, language) pair as a single atomic statement.
func (s *Service) UpsertPostTranslation(ctx context.Context, postID int64, lang language.Code, override Override) error {
	if postID <= 0 {
		return newServiceError(opUpsertTranslation, "invalid_id", ErrInvalidArgument, nil)
	}
	if lang.IsZero() {
		return newServiceError(opUpsertTranslation, "missing_language", ErrInvalidArgument, errMissingLanguage)
	}

	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	translation := PostTranslation{
		PostID:   postID,
		Language: lang.String(),
		Title:    override.Title,
		Content:  override.Content,
		Excerpt:  override.Excerpt,
	}
	err := s.db.WithContext(queryCtx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "excerpt"}),
		}).
		Create(&translation).Error
	if err != nil {
		s.logError(opUpsertTranslation, "upsert_failed", err,
			zap.Int64("post_id", postID),
			zap.String("language", lang.String()))
		return newServiceError(opUpsertTranslation, "upsert_failed", ErrStoreFailure, err)
	}
	return nil
}

func (s *Service) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// isDuplicateKey recognizes uniqueness violations across the postgres and
// sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "duplicate key value") ||
		strings.Contains(message, "UNIQUE constraint failed")
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("content service error", attrs...)
}
