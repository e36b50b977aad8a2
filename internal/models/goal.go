package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGoalEmoji is used when a goal is created without one.
const DefaultGoalEmoji = "🎯"

var hundred = decimal.NewFromInt(100)

// Goal is a personal savings target. Completed is derived from the amounts
// and must be refreshed with Recompute whenever either amount changes.
type Goal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"current_amount"`
	Emoji         string          `json:"emoji"`
	Deadline      *time.Time      `json:"deadline"`
	Completed     bool            `gorm:"not null;default:false" json:"completed"`
}

// Recompute refreshes Completed from the current amounts.
func (g *Goal) Recompute() {
	g.Completed = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Progress returns completion as a percentage capped at 100, or 0 when the
// target is not positive.
func (g *Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	f, _ := pct.Float64()
	return f
}
