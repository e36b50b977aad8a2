package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/models"
)

// goalService tracks personal savings goals.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a goal with no progress. The target must be positive.
func (s *goalService) CreateGoal(ctx context.Context, userID, name string, target decimal.Decimal, emoji string, deadline *time.Time) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !target.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidGoalAmount, "target amount must be positive")
	}
	if emoji == "" {
		emoji = models.DefaultGoalEmoji
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Emoji:         emoji,
		Deadline:      deadline,
	}
	goal.Recompute()

	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// ListGoals returns the user's goals, oldest first.
func (s *goalService) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoal returns a goal owned by userID.
func (s *goalService) GetGoal(ctx context.Context, goalID, userID string) (*models.Goal, error) {
	return findOwnedGoal(s.db.WithContext(ctx), goalID, userID)
}

func findOwnedGoal(db *gorm.DB, goalID, userID string) (*models.Goal, error) {
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// Contribute adds amount to the goal's progress and recomputes completion.
// Negative amounts withdraw, but never below zero.
func (s *goalService) Contribute(ctx context.Context, goalID, userID string, amount decimal.Decimal) (*models.Goal, error) {
	if amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidGoalAmount, "contribution must not be zero")
	}

	var goal *models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = findOwnedGoal(tx.Clauses(clause.Locking{Strength: "UPDATE"}), goalID, userID)
		if err != nil {
			return err
		}

		next := goal.CurrentAmount.Add(amount)
		if next.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidGoalAmount, "withdrawal exceeds saved amount")
		}
		goal.CurrentAmount = next
		goal.Recompute()

		return saveGoalAmounts(tx, goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoal applies a partial update. Completion is recomputed from the
// post-update amounts whenever either amount is part of the update.
func (s *goalService) UpdateGoal(ctx context.Context, goalID, userID string, update GoalUpdate) (*models.Goal, error) {
	var goal *models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		goal, err = findOwnedGoal(tx.Clauses(clause.Locking{Strength: "UPDATE"}), goalID, userID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if name == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name cannot be empty")
			}
			goal.Name = name
			updates["name"] = name
		}
		if update.Emoji != nil && *update.Emoji != "" {
			goal.Emoji = *update.Emoji
			updates["emoji"] = *update.Emoji
		}
		if update.Deadline != nil {
			goal.Deadline = update.Deadline
			updates["deadline"] = *update.Deadline
		}
		if update.TargetAmount != nil {
			if !update.TargetAmount.IsPositive() {
				return apperrors.WithMessage(apperrors.ErrInvalidGoalAmount, "target amount must be positive")
			}
			goal.TargetAmount = *update.TargetAmount
			updates["target_amount"] = goal.TargetAmount
		}
		if update.CurrentAmount != nil {
			if update.CurrentAmount.IsNegative() {
				return apperrors.WithMessage(apperrors.ErrInvalidGoalAmount, "current amount cannot be negative")
			}
			goal.CurrentAmount = *update.CurrentAmount
			updates["current_amount"] = goal.CurrentAmount
		}
		if update.TargetAmount != nil || update.CurrentAmount != nil {
			goal.Recompute()
			updates["completed"] = goal.Completed
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Goal{}).Where("id = ?", goal.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal owned by userID.
func (s *goalService) DeleteGoal(ctx context.Context, goalID, userID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

func saveGoalAmounts(tx *gorm.DB, goal *models.Goal) error {
	err := tx.Model(&models.Goal{}).Where("id = ?", goal.ID).Updates(map[string]interface{}{
		"current_amount": goal.CurrentAmount,
		"completed":      goal.Completed,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
