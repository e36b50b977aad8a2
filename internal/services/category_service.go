package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/models"
)

// defaultCategory is one entry of the built-in catalog.
type defaultCategory struct {
	Name  string
	Emoji string
}

// Built-in categories, in display order.
var defaultCategories = map[models.CategoryType][]defaultCategory{
	models.CategoryTypeExpense: {
		{"Jedzenie", "🍔"},
		{"Transport", "🚗"},
		{"Zakupy", "🛒"},
		{"Rozrywka", "🎬"},
		{"Rachunki", "📄"},
		{"Zdrowie", "💊"},
		{"Inne", "📌"},
	},
	models.CategoryTypeIncome: {
		{"Wynagrodzenie", "💰"},
		{"Freelance", "💻"},
		{"Prezent", "🎁"},
		{"Zwrot", "↩️"},
		{"Inwestycje", "📈"},
		{"Inne", "💵"},
	},
}

const defaultCategoryIDPrefix = "default-"

// DefaultCategories returns the built-in catalog for categoryType. Ids are
// stable and of the form default-<type>-<n>.
func DefaultCategories(categoryType models.CategoryType) []CategoryEntry {
	defs := defaultCategories[categoryType]
	entries := make([]CategoryEntry, 0, len(defs))
	for i, d := range defs {
		entries = append(entries, CategoryEntry{
			ID:        fmt.Sprintf("%s%s-%d", defaultCategoryIDPrefix, categoryType, i),
			Name:      d.Name,
			Emoji:     d.Emoji,
			Type:      categoryType,
			IsDefault: true,
		})
	}
	return entries
}

// categoryService merges the built-in catalog with user-defined categories.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns defaults first, then the user's own categories.
// A nil categoryType lists both types, expense before income.
func (s *categoryService) ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]CategoryEntry, error) {
	types := []models.CategoryType{models.CategoryTypeExpense, models.CategoryTypeIncome}
	if categoryType != nil {
		if !categoryType.IsValid() {
			return nil, apperrors.ErrInvalidCategoryType
		}
		types = []models.CategoryType{*categoryType}
	}

	var entries []CategoryEntry
	for _, t := range types {
		entries = append(entries, DefaultCategories(t)...)
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if categoryType != nil {
		q = q.Where("type = ?", *categoryType)
	}
	var custom []models.Category
	if err := q.Order("created_at ASC").Order("id ASC").Find(&custom).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, c := range custom {
		entries = append(entries, CategoryEntry{
			ID:    c.ID,
			Name:  c.Name,
			Emoji: c.Emoji,
			Type:  c.Type,
		})
	}
	return entries, nil
}

// CreateCategory stores a custom category for the user.
func (s *categoryService) CreateCategory(ctx context.Context, userID, name, emoji string, categoryType models.CategoryType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !categoryType.IsValid() {
		return nil, apperrors.ErrInvalidCategoryType
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Emoji:  emoji,
		Type:   categoryType,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a custom category. Transactions keep their copied
// label. Built-in categories cannot be deleted.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID, userID string) error {
	if strings.HasPrefix(categoryID, defaultCategoryIDPrefix) {
		return apperrors.ErrDefaultCategory
	}

	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", categoryID, userID).Delete(&models.Category{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
