package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"cennygrosz/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestWallet creates a personal wallet with zero balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, ownerID string) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		Name:    fmt.Sprintf("Test Wallet %d", nextID()),
		Emoji:   "💰",
		Balance: decimal.Zero,
		OwnerID: ownerID,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestSharedWallet creates a shared wallet whose members are the owner
// plus memberIDs.
func CreateTestSharedWallet(t *testing.T, db *gorm.DB, ownerID string, memberIDs ...string) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		Name:     fmt.Sprintf("Shared Wallet %d", nextID()),
		Emoji:    "👨‍👩‍👧",
		Balance:  decimal.Zero,
		IsShared: true,
		OwnerID:  ownerID,
	}
	wallet.Members = append(wallet.Members, models.WalletMember{UserID: ownerID})
	for _, id := range memberIDs {
		wallet.Members = append(wallet.Members, models.WalletMember{UserID: id})
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test shared wallet: %v", err)
	}
	return wallet
}

// RemoveTestMember revokes a user's membership of a shared wallet.
func RemoveTestMember(t *testing.T, db *gorm.DB, walletID, userID string) {
	t.Helper()

	if err := db.Where("wallet_id = ? AND user_id = ?", walletID, userID).Delete(&models.WalletMember{}).Error; err != nil {
		t.Fatalf("failed to remove test member: %v", err)
	}
}

// CreateTestGoal creates a goal with the given target and zero progress.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  decimal.NewFromInt(target),
		CurrentAmount: decimal.Zero,
		Emoji:         models.DefaultGoalEmoji,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestCategory creates a custom category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Emoji:  "🏷️",
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// ReloadWallet fetches the wallet's current row, bypassing access checks.
func ReloadWallet(t *testing.T, db *gorm.DB, walletID string) *models.Wallet {
	t.Helper()

	var wallet models.Wallet
	if err := db.Where("id = ?", walletID).First(&wallet).Error; err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	return &wallet
}

// LedgerSum returns the signed sum of all transactions recorded against walletID.
func LedgerSum(t *testing.T, db *gorm.DB, walletID string) decimal.Decimal {
	t.Helper()

	var txns []models.Transaction
	if err := db.Where("wallet_id = ?", walletID).Find(&txns).Error; err != nil {
		t.Fatalf("failed to load transactions: %v", err)
	}
	sum := decimal.Zero
	for i := range txns {
		sum = sum.Add(txns[i].SignedAmount())
	}
	return sum
}
