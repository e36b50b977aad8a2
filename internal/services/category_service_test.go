package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"cennygrosz/internal/models"
	"cennygrosz/internal/testutil"
)

func TestDefaultCategories(t *testing.T) {
	tests := []struct {
		categoryType models.CategoryType
		wantCount    int
		wantFirst    string
		wantFirstID  string
	}{
		{models.CategoryTypeExpense, 7, "Jedzenie", "default-expense-0"},
		{models.CategoryTypeIncome, 6, "Wynagrodzenie", "default-income-0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.categoryType), func(t *testing.T) {
			got := DefaultCategories(tt.categoryType)
			if len(got) != tt.wantCount {
				t.Fatalf("expected %d defaults, got %d", tt.wantCount, len(got))
			}
			if got[0].Name != tt.wantFirst || got[0].ID != tt.wantFirstID {
				t.Errorf("unexpected first entry %+v", got[0])
			}
			for _, e := range got {
				if !e.IsDefault || e.Type != tt.categoryType {
					t.Errorf("unexpected entry %+v", e)
				}
			}
		})
	}
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	custom, err := svc.CreateCategory(ctx, user.ID, "Kawa", "☕", models.CategoryTypeExpense)
	testutil.AssertNoError(t, err)
	_, err = svc.CreateCategory(ctx, user.ID, "Premia", "🏆", models.CategoryTypeIncome)
	testutil.AssertNoError(t, err)
	testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

	t.Run("defaults_first_then_custom", func(t *testing.T) {
		expenseType := models.CategoryTypeExpense
		entries, err := svc.ListCategories(ctx, user.ID, &expenseType)
		testutil.AssertNoError(t, err)

		if len(entries) != 8 {
			t.Fatalf("expected 7 defaults + 1 custom, got %d", len(entries))
		}
		for _, e := range entries[:7] {
			if !e.IsDefault {
				t.Errorf("expected default entry, got %+v", e)
			}
		}
		last := entries[7]
		if last.ID != custom.ID || last.IsDefault {
			t.Errorf("expected custom category last, got %+v", last)
		}
	})

	t.Run("all_types", func(t *testing.T) {
		entries, err := svc.ListCategories(ctx, user.ID, nil)
		testutil.AssertNoError(t, err)
		if len(entries) != 15 {
			t.Errorf("expected 13 defaults + 2 custom, got %d", len(entries))
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		bad := models.CategoryType("transfer")
		_, err := svc.ListCategories(ctx, user.ID, &bad)
		testutil.AssertAppError(t, err, "INVALID_CATEGORY_TYPE")
	})
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("empty_name", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, user.ID, " ", "x", models.CategoryTypeExpense)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, user.ID, "X", "x", "transfer")
		testutil.AssertAppError(t, err, "INVALID_CATEGORY_TYPE")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps_transaction_labels", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		txSvc := NewTransactionService(db, NewWalletService(db, nil), nil)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID)

		category, err := svc.CreateCategory(ctx, user.ID, "Kawa", "☕", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)
		txn, err := txSvc.Record(ctx, user.ID, RecordInput{
			WalletID: wallet.ID,
			Amount:   decimal.NewFromInt(12),
			Type:     models.TransactionTypeExpense,
			Category: category.Name,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteCategory(ctx, category.ID, user.ID))

		got, err := txSvc.Get(ctx, txn.ID, user.ID)
		testutil.AssertNoError(t, err)
		if got.Category != "Kawa" {
			t.Errorf("expected label Kawa to survive, got %s", got.Category)
		}
		testutil.AssertDecimal(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, "-12", "balance")
	})

	t.Run("default_is_read_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteCategory(ctx, "default-expense-0", user.ID)
		testutil.AssertAppError(t, err, "DEFAULT_CATEGORY_READONLY")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeIncome)

		err := svc.DeleteCategory(ctx, category.ID, other.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
