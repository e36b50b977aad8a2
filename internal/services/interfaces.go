package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cennygrosz/internal/models"
)

// UserServicer defines the contract for registration and credential checks.
type UserServicer interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// WalletUpdate holds the fields an owner may change. Nil means unchanged.
type WalletUpdate struct {
	Name  *string
	Emoji *string
}

// WalletServicer defines the contract for wallet ownership and balances.
type WalletServicer interface {
	CreateWallet(ctx context.Context, ownerID, name, emoji string, isShared bool) (*models.Wallet, error)
	ListAccessible(ctx context.Context, userID string) ([]models.Wallet, error)
	GetAccessible(ctx context.Context, walletID, userID string) (*models.Wallet, error)
	UpdateWallet(ctx context.Context, walletID, ownerID string, update WalletUpdate) (*models.Wallet, error)
	DeleteWallet(ctx context.Context, walletID, ownerID string) error
	AdjustBalance(tx *gorm.DB, walletID string, delta decimal.Decimal) error
}

// RecordInput describes a new ledger entry. Amount may carry any sign; only
// its magnitude is stored.
type RecordInput struct {
	WalletID string
	Amount   decimal.Decimal
	Type     models.TransactionType
	Category string
	Emoji    string
	Note     *string
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	WalletID *string
	Limit    int
}

// TransactionServicer defines the contract for the ledger.
type TransactionServicer interface {
	Record(ctx context.Context, userID string, in RecordInput) (*models.Transaction, error)
	Remove(ctx context.Context, transactionID, userID string) error
	List(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)
	Get(ctx context.Context, transactionID, userID string) (*models.Transaction, error)
}

// GoalUpdate holds the goal fields to change. Nil means unchanged.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Emoji         *string
	Deadline      *time.Time
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	CreateGoal(ctx context.Context, userID, name string, target decimal.Decimal, emoji string, deadline *time.Time) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	GetGoal(ctx context.Context, goalID, userID string) (*models.Goal, error)
	Contribute(ctx context.Context, goalID, userID string, amount decimal.Decimal) (*models.Goal, error)
	UpdateGoal(ctx context.Context, goalID, userID string, update GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, goalID, userID string) error
}

// CategoryEntry is a category as presented to clients, built-in or custom.
type CategoryEntry struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Emoji     string              `json:"emoji"`
	Type      models.CategoryType `json:"type"`
	IsDefault bool                `json:"is_default"`
}

// CategoryServicer defines the contract for the category catalog.
type CategoryServicer interface {
	ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]CategoryEntry, error)
	CreateCategory(ctx context.Context, userID, name, emoji string, categoryType models.CategoryType) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID, userID string) error
}

// GoalProgress summarises one goal for the dashboard.
type GoalProgress struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Emoji    string          `json:"emoji"`
	Progress float64         `json:"progress"`
	Current  decimal.Decimal `json:"current"`
	Target   decimal.Decimal `json:"target"`
}

// DashboardStats is the read-only aggregate shown on the home screen.
type DashboardStats struct {
	TotalBalance      decimal.Decimal            `json:"total_balance"`
	MonthIncome       decimal.Decimal            `json:"month_income"`
	MonthExpenses     decimal.Decimal            `json:"month_expenses"`
	WalletsCount      int                        `json:"wallets_count"`
	GoalsProgress     []GoalProgress             `json:"goals_progress"`
	ExpenseCategories map[string]decimal.Decimal `json:"expense_categories"`
}

// DashboardServicer defines the contract for dashboard aggregation.
type DashboardServicer interface {
	GetStats(ctx context.Context, userID string) (*DashboardStats, error)
}

// ChatReply is the assistant's answer to one message.
type ChatReply struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// AssistantServicer defines the contract for the AI assistant bridge.
type AssistantServicer interface {
	Chat(ctx context.Context, userID, message string) (*ChatReply, error)
	History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
}
