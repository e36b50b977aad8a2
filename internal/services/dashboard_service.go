package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/models"
)

// dashboardService derives statistics on demand from wallets, transactions
// and goals. It stores nothing.
type dashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db, now: time.Now}
}

// monthStart returns midnight UTC on the first day of t's month.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// GetStats aggregates the caller's balances, this month's flows, the expense
// breakdown by category and goal progress.
func (s *dashboardService) GetStats(ctx context.Context, userID string) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	since := monthStart(s.now())

	var (
		wallets []models.Wallet
		month   []models.Transaction
		goals   []models.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Where("id IN (?)", accessibleWalletIDs(db, userID)).Find(&wallets).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Select("type", "category", "amount").
			Where("wallet_id IN (?) AND created_at >= ?", accessibleWalletIDs(db, userID), since).
			Find(&month).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&goals).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &DashboardStats{
		TotalBalance:      decimal.Zero,
		MonthIncome:       decimal.Zero,
		MonthExpenses:     decimal.Zero,
		WalletsCount:      len(wallets),
		GoalsProgress:     make([]GoalProgress, 0, len(goals)),
		ExpenseCategories: map[string]decimal.Decimal{},
	}

	for _, w := range wallets {
		stats.TotalBalance = stats.TotalBalance.Add(w.Balance)
	}

	for _, txn := range month {
		switch txn.Type {
		case models.TransactionTypeIncome:
			stats.MonthIncome = stats.MonthIncome.Add(txn.Amount)
		case models.TransactionTypeExpense:
			stats.MonthExpenses = stats.MonthExpenses.Add(txn.Amount)
			stats.ExpenseCategories[txn.Category] = stats.ExpenseCategories[txn.Category].Add(txn.Amount)
		}
	}

	for i := range goals {
		stats.GoalsProgress = append(stats.GoalsProgress, GoalProgress{
			ID:       goals[i].ID,
			Name:     goals[i].Name,
			Emoji:    goals[i].Emoji,
			Progress: goals[i].Progress(),
			Current:  goals[i].CurrentAmount,
			Target:   goals[i].TargetAmount,
		})
	}

	return stats, nil
}
