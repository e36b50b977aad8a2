package services

import (
	"context"
	"testing"

	"cennygrosz/internal/models"
	"cennygrosz/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")) != nil {
			t.Error("expected bcrypt hash of the password")
		}
	})

	t.Run("creates_default_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register(ctx, "bob@example.com", "password123", "Bob")
		testutil.AssertNoError(t, err)

		var wallets []models.Wallet
		db.Where("owner_id = ?", user.ID).Find(&wallets)
		if len(wallets) != 1 {
			t.Fatalf("expected 1 default wallet, got %d", len(wallets))
		}
		w := wallets[0]
		if w.Name != models.DefaultWalletName || w.Emoji != models.DefaultWalletEmoji {
			t.Errorf("unexpected default wallet %q %q", w.Name, w.Emoji)
		}
		if w.IsShared {
			t.Error("default wallet should be personal")
		}
		testutil.AssertDecimal(t, w.Balance, "0", "balance")
	})

	t.Run("duplicate_email_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register(ctx, "dup@example.com", "password123", "A")
		testutil.AssertNoError(t, err)

		_, err = svc.Register(ctx, "DUP@example.com", "password456", "B")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")

		var wallets int64
		db.Model(&models.Wallet{}).Count(&wallets)
		if wallets != 1 {
			t.Errorf("failed registration must not leave a wallet, got %d wallets", wallets)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register(ctx, "", "password123", "A")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register(ctx, "a@example.com", "", "A")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register(ctx, "a@example.com", "password123", "  ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register(ctx, "Alice@EXAMPLE.COM", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		found, err := svc.Authenticate(ctx, user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if found.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, found.ID)
		}
	})

	t.Run("email_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "carol@example.com")

		_, err := svc.Authenticate(ctx, "CAROL@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Authenticate(ctx, user.Email, "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Authenticate(ctx, "nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		found, err := svc.GetUserByID(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if found.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, found.Email)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID(ctx, "0190a3f2-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
