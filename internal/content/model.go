package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const maxSlugLength = 190

var (
	// ErrInvalidSlug indicates that a post slug is empty or exceeds storage bounds.
	ErrInvalidSlug = errors.New("content: invalid slug")
	// ErrInvalidCategory indicates a category outside the known portfolio set.
	ErrInvalidCategory = errors.New("content: invalid category")
)

// Slug represents a validated post slug.
type Slug string

// NewSlug validates raw input and returns a Slug.
func NewSlug(rawInput string) (Slug, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSlug)
	}
	if len(trimmed) > maxSlugLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidSlug, maxSlugLength)
	}
	return Slug(trimmed), nil
}

// String returns the underlying slug value.
func (s Slug) String() string {
	return string(s)
}

// Category enumerates the portfolio sections shown on the site.
type Category string

const (
	CategoryWebPages   Category = "web-pages"
	CategoryWebApps    Category = "web-apps"
	CategoryWebWidgets Category = "web-widgets"
	CategoryPlugins    Category = "plugins"
)

// ParseCategory validates raw input against the known portfolio categories.
func ParseCategory(rawInput string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(rawInput))) {
	case CategoryWebPages:
		return CategoryWebPages, nil
	case CategoryWebApps:
		return CategoryWebApps, nil
	case CategoryWebWidgets:
		return CategoryWebWidgets, nil
	case CategoryPlugins:
		return CategoryPlugins, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, rawInput)
	}
}

// String returns the underlying category value.
func (c Category) String() string {
	return string(c)
}

// Post models a blog entry stored in its original language.
type Post struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Slug      string    `gorm:"column:slug;size:190;not null;uniqueIndex:idx_posts_slug"`
	Title     string    `gorm:"column:title;size:512;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	Excerpt   *string   `gorm:"column:excerpt;type:text"`
	Author    *string   `gorm:"column:author;size:190"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_posts_created"`
}

// TableName provides the explicit table binding for GORM.
func (Post) TableName() string {
	return "posts"
}

// PostTranslation holds the per-language override row for a post. The
// composite primary key enforces at most one row per (post, language).
type PostTranslation struct {
	PostID   int64   `gorm:"column:post_id;primaryKey"`
	Language string  `gorm:"column:language;primaryKey;size:35;not null"`
	Title    *string `gorm:"column:title;size:512"`
	Content  *string `gorm:"column:content;type:text"`
	Excerpt  *string `gorm:"column:excerpt;type:text"`
}

// TableName provides the explicit table binding for GORM.
func (PostTranslation) TableName() string {
	return "post_translations"
}

// PortfolioItem models a portfolio entry stored in its original language.
type PortfolioItem struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title        string    `gorm:"column:title;size:512;not null"`
	Description  string    `gorm:"column:description;type:text;not null"`
	ImageURL     *string   `gorm:"column:image_url;size:512"`
	ProjectURL   *string   `gorm:"column:project_url;size:512"`
	Category     string    `gorm:"column:category;size:64;not null;index:idx_portfolio_category"`
	Technologies *string   `gorm:"column:technologies;size:512"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_portfolio_created"`
}

// TableName provides the explicit table binding for GORM.
func (PortfolioItem) TableName() string {
	return "portfolio"
}

// PortfolioTranslation holds the per-language override row for a portfolio item.
type PortfolioTranslation struct {
	ItemID      int64   `gorm:"column:item_id;primaryKey"`
	Language    string  `gorm:"column:language;primaryKey;size:35;not null"`
	Title       *string `gorm:"column:title;size:512"`
	Description *string `gorm:"column:description;type:text"`
}

// TableName provides the explicit table binding for GORM.
func (PortfolioTranslation) TableName() string {
	return "portfolio_translations"
}
