package content

import (
	"time"

	"github.com/mondostudio/mondo/backend/internal/language"
)

// TranslatedFields is the bag of fields a translation may override.
type TranslatedFields struct {
	Title   string
	Content string
	Excerpt *string
}

// Override carries the nullable per-language values for a single row. A nil
// field means the translator left that field untouched and the base value
// must show through.
type Override struct {
	Title   *string
	Content *string
	Excerpt *string
}

// mergeFields resolves one field bag against an optional override. The
// fallback is per field, never per row: a row overriding only the title still
// serves the base content and excerpt.
func mergeFields(base TranslatedFields, override *Override) TranslatedFields {
	if override == nil {
		return base
	}
	merged := base
	if override.Title != nil {
		merged.Title = *override.Title
	}
	if override.Content != nil {
		merged.Content = *override.Content
	}
	if override.Excerpt != nil {
		merged.Excerpt = override.Excerpt
	}
	return merged
}

// ResolvedPost is the merged view of a post for a requested language. It is
// recomputed on every read and never persisted.
type ResolvedPost struct {
	ID        int64
	Slug      string
	Title     string
	Content   string
	Excerpt   *string
	Author    *string
	CreatedAt time.Time
	Language  language.Code
}

// ResolvedPortfolioItem is the merged view of a portfolio entry.
type ResolvedPortfolioItem struct {
	ID           int64
	Title        string
	Description  string
	ImageURL     *string
	ProjectURL   *string
	Category     string
	Technologies *string
	CreatedAt    time.Time
	Language     language.Code
}

func resolvePost(post Post, translation *PostTranslation, lang language.Code) ResolvedPost {
	base := TranslatedFields{Title: post.Title, Content: post.Content, Excerpt: post.Excerpt}
	var override *Override
	if translation != nil {
		override = &Override{Title: translation.Title, Content: translation.Content, Excerpt: translation.Excerpt}
	}
	merged := mergeFields(base, override)

	return ResolvedPost{
		ID:        post.ID,
		Slug:      post.Slug,
		Title:     merged.Title,
		Content:   merged.Content,
		Excerpt:   merged.Excerpt,
		Author:    post.Author,
		CreatedAt: post.CreatedAt,
		Language:  lang,
	}
}

func resolvePortfolioItem(item PortfolioItem, translation *PortfolioTranslation, lang language.Code) ResolvedPortfolioItem {
	base := TranslatedFields{Title: item.Title, Content: item.Description}
	var override *Override
	if translation != nil {
		override = &Override{Title: translation.Title, Content: translation.Description}
	}
	merged := mergeFields(base, override)

	return ResolvedPortfolioItem{
		ID:           item.ID,
		Title:        merged.Title,
		Description:  merged.Content,
		ImageURL:     item.ImageURL,
		ProjectURL:   item.ProjectURL,
		Category:     item.Category,
		Technologies: item.Technologies,
		CreatedAt:    item.CreatedAt,
		Language:     lang,
	}
}
