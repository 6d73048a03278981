package content

import (
	"context"
	"errors"

	"github.com/mondostudio/mondo/backend/internal/language"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	opListPortfolio         = "content.list_portfolio"
	opGetPortfolio          = "content.get_portfolio"
	opUpsertItemTranslation = "content.upsert_portfolio_translation"
)

// ListPortfolio returns portfolio items newest first, optionally filtered by
// category and resolved for the requested language. An empty rawCategory
// skips filtering.
func (s *Service) ListPortfolio(ctx context.Context, rawCategory string, lang language.Code) ([]ResolvedPortfolioItem, error) {
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	query := s.db.WithContext(queryCtx).Order("created_at DESC")
	if rawCategory != "" {
		category, err := ParseCategory(rawCategory)
		if err != nil {
			return nil, newServiceError(opListPortfolio, "invalid_category", ErrInvalidArgument, err)
		}
		query = query.Where("category = ?", category.String())
	}

	var items []PortfolioItem
	if err := query.Find(&items).Error; err != nil {
		s.logError(opListPortfolio, "query_failed", err)
		return nil, newServiceError(opListPortfolio, "query_failed", ErrStoreFailure, err)
	}

	if lang.IsZero() || len(items) == 0 {
		resolved := make([]ResolvedPortfolioItem, 0, len(items))
		for _, item := range items {
			resolved = append(resolved, resolvePortfolioItem(item, nil, lang))
		}
		return resolved, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	var translations []PortfolioTranslation
	if err := s.db.WithContext(queryCtx).
		Where("language = ? AND item_id IN ?", lang.String(), ids).
		Find(&translations).Error; err != nil {
		s.logError(opListPortfolio, "translation_query_failed", err, zap.String("language", lang.String()))
		return nil, newServiceError(opListPortfolio, "translation_query_failed", ErrStoreFailure, err)
	}

	byItem := make(map[int64]PortfolioTranslation, len(translations))
	for _, translation := range translations {
		byItem[translation.ItemID] = translation
	}

	resolved := make([]ResolvedPortfolioItem, 0, len(items))
	for _, item := range items {
		var override *PortfolioTranslation
		if translation, ok := byItem[item.ID]; ok {
			override = &translation
		}
		resolved = append(resolved, resolvePortfolioItem(item, override, lang))
	}
	return resolved, nil
}

// GetPortfolioByID returns the resolved view of one portfolio item or
// ErrNotFound.
func (s *Service) GetPortfolioByID(ctx context.Context, id int64, lang language.Code) (ResolvedPortfolioItem, error) {
	if id <= 0 {
		return ResolvedPortfolioItem{}, newServiceError(opGetPortfolio, "invalid_id", ErrInvalidArgument, nil)
	}

	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	var item PortfolioItem
	err := s.db.WithContext(queryCtx).Where("id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ResolvedPortfolioItem{}, newServiceError(opGetPortfolio, "not_found", ErrNotFound, nil)
	}
	if err != nil {
		s.logError(opGetPortfolio, "query_failed", err, zap.Int64("item_id", id))
		return ResolvedPortfolioItem{}, newServiceError(opGetPortfolio, "query_failed", ErrStoreFailure, err)
	}

	var override *PortfolioTranslation
	if !lang.IsZero() {
		var translation PortfolioTranslation
		err := s.db.WithContext(queryCtx).
			Where("item_id = ? AND language = ?", id, lang.String()).
			Take(&translation).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			s.logError(opGetPortfolio, "translation_query_failed", err,
				zap.Int64("item_id", id),
				zap.String("language", lang.String()))
			return ResolvedPortfolioItem{}, newServiceError(opGetPortfolio, "translation_query_failed", ErrStoreFailure, err)
		default:
			override = &translation
		}
	}
	return resolvePortfolioItem(item, override, lang), nil
}

// UpsertPortfolioTranslation writes or overwrites the override row for the
// exact (item, language) pair as a single atomic statement.
func (s *Service) UpsertPortfolioTranslation(ctx context.Context, itemID int64, lang language.Code, override Override) error {
	if itemID <= 0 {
		return newServiceError(opUpsertItemTranslation, "invalid_id", ErrInvalidArgument, nil)
	}
	if lang.IsZero() {
		return newServiceError(opUpsertItemTranslation, "missing_language", ErrInvalidArgument, errMissingLanguage)
	}

	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	translation := PortfolioTranslation{
		ItemID:      itemID,
		Language:    lang.String(),
		Title:       override.Title,
		Description: override.Content,
	}
	err := s.db.WithContext(queryCtx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).
		Create(&translation).Error
	if err != nil {
		s.logError(opUpsertItemTranslation, "upsert_failed", err,
			zap.Int64("item_id", itemID),
			zap.String("language", lang.String()))
		return newServiceError(opUpsertItemTranslation, "upsert_failed", ErrStoreFailure, err)
	}
	return nil
}
