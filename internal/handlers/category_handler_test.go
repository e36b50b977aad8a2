package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/models"
	"cennygrosz/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	listCategoriesFn func(ctx context.Context, userID string, categoryType *models.CategoryType) ([]services.CategoryEntry, error)
	createCategoryFn func(ctx context.Context, userID, name, emoji string, categoryType models.CategoryType) (*models.Category, error)
	deleteCategoryFn func(ctx context.Context, categoryID, userID string) error
}

func (m *mockCategoryService) ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]services.CategoryEntry, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx, userID, categoryType)
	}
	return []services.CategoryEntry{}, nil
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, userID, name, emoji string, categoryType models.CategoryType) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, userID, name, emoji, categoryType)
	}
	return &models.Category{Base: models.Base{ID: "c1"}, UserID: userID, Name: name, Emoji: emoji, Type: categoryType}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, categoryID, userID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, categoryID, userID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.GET("/categories", handler.ListCategories)
	r.POST("/categories", handler.CreateCategory)
	r.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	t.Run("passes type filter", func(t *testing.T) {
		var got *models.CategoryType
		svc := &mockCategoryService{
			listCategoriesFn: func(_ context.Context, _ string, categoryType *models.CategoryType) ([]services.CategoryEntry, error) {
				got = categoryType
				return services.DefaultCategories(models.CategoryTypeIncome), nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories?type=income", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || *got != models.CategoryTypeIncome {
			t.Errorf("expected income filter, got %v", got)
		}
		categories := parseJSON(t, rec)["categories"].([]interface{})
		if len(categories) == 0 {
			t.Fatal("expected default categories")
		}
		if categories[0].(map[string]interface{})["is_default"] != true {
			t.Error("expected built-in category flagged as default")
		}
	})

	t.Run("no filter passes nil", func(t *testing.T) {
		filtered := true
		svc := &mockCategoryService{
			listCategoriesFn: func(_ context.Context, _ string, categoryType *models.CategoryType) ([]services.CategoryEntry, error) {
				filtered = categoryType != nil
				return nil, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if filtered {
			t.Error("expected no type filter")
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "GET", "/categories?type=savings", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY_TYPE")
	})
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Kot","emoji":"🐈","type":"expense"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["name"] != "Kot" {
			t.Errorf("expected name Kot, got %v", category["name"])
		}
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Kot","type":"other"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY_TYPE")
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("built-in category is read only", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_ context.Context, _, _ string) error {
				return apperrors.ErrDefaultCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/categories/default-expense-0", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DEFAULT_CATEGORY_READONLY")
	})

	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "DELETE", "/categories/c1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
