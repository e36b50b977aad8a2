package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cennygrosz/internal/services"
)

type mockDashboardService struct {
	getStatsFn func(ctx context.Context, userID string) (*services.DashboardStats, error)
}

func (m *mockDashboardService) GetStats(ctx context.Context, userID string) (*services.DashboardStats, error) {
	return m.getStatsFn(ctx, userID)
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func TestDashboardHandler_GetStats(t *testing.T) {
	t.Run("renders stats at top level", func(t *testing.T) {
		svc := &mockDashboardService{
			getStatsFn: func(_ context.Context, _ string) (*services.DashboardStats, error) {
				return &services.DashboardStats{
					TotalBalance:      decimal.RequireFromString("150.5"),
					MonthIncome:       decimal.NewFromInt(200),
					MonthExpenses:     decimal.RequireFromString("49.5"),
					WalletsCount:      2,
					GoalsProgress:     []services.GoalProgress{},
					ExpenseCategories: map[string]decimal.Decimal{"Jedzenie": decimal.RequireFromString("49.5")},
				}, nil
			},
		}
		r := gin.New()
		r.GET("/dashboard/stats", injectUserID(testUserID), NewDashboardHandler(svc).GetStats)

		rec := doRequest(r, "GET", "/dashboard/stats", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total_balance"] != 150.5 {
			t.Errorf("expected total_balance 150.5, got %v", result["total_balance"])
		}
		if result["wallets_count"] != 2.0 {
			t.Errorf("expected 2 wallets, got %v", result["wallets_count"])
		}
		categories := result["expense_categories"].(map[string]interface{})
		if categories["Jedzenie"] != 49.5 {
			t.Errorf("expected Jedzenie 49.5, got %v", categories["Jedzenie"])
		}
	})

	t.Run("returns 401 without identity", func(t *testing.T) {
		r := gin.New()
		r.GET("/dashboard/stats", NewDashboardHandler(&mockDashboardService{}).GetStats)

		rec := doRequest(r, "GET", "/dashboard/stats", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
