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
	"cennygrosz/internal/events"
	"cennygrosz/internal/logger"
	"cennygrosz/internal/models"
)

// walletService owns wallet records and their cached balances.
type walletService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB, publisher events.Publisher) WalletServicer {
	return &walletService{db: db, publisher: publisher}
}

// accessibleBy restricts a wallet query to wallets userID owns or is a member of.
func accessibleBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("wallets.owner_id = ? OR wallets.id IN (?)", userID,
			db.Session(&gorm.Session{NewDB: true}).Model(&models.WalletMember{}).Select("wallet_id").Where("user_id = ?", userID))
	}
}

// CreateWallet creates a wallet with a zero balance. Shared wallets start with
// the owner as their only member.
func (s *walletService) CreateWallet(ctx context.Context, ownerID, name, emoji string, isShared bool) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
	}
	if emoji == "" {
		emoji = models.DefaultWalletEmoji
	}

	wallet := &models.Wallet{
		Name:     name,
		Emoji:    emoji,
		Balance:  decimal.Zero,
		IsShared: isShared,
		OwnerID:  ownerID,
	}
	if isShared {
		wallet.Members = []models.WalletMember{{UserID: ownerID}}
	}

	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	wallet.SyncMemberIDs()
	return wallet, nil
}

// ListAccessible returns every wallet the user owns or shares, oldest first.
func (s *walletService) ListAccessible(ctx context.Context, userID string) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := s.db.WithContext(ctx).
		Preload("Members").
		Scopes(accessibleBy(userID)).
		Order("wallets.created_at ASC").Order("wallets.id ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallets, nil
}

// GetAccessible returns the wallet if userID may see it. A wallet that does
// not exist and one the caller cannot access are both WALLET_NOT_FOUND.
func (s *walletService) GetAccessible(ctx context.Context, walletID, userID string) (*models.Wallet, error) {
	return getAccessibleWallet(s.db.WithContext(ctx), walletID, userID)
}

func getAccessibleWallet(db *gorm.DB, walletID, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.Preload("Members").
		Scopes(accessibleBy(userID)).
		Where("wallets.id = ?", walletID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// getOwnedWallet resolves an accessible wallet and requires ownerID to own it.
func getOwnedWallet(db *gorm.DB, walletID, ownerID string) (*models.Wallet, error) {
	wallet, err := getAccessibleWallet(db, walletID, ownerID)
	if err != nil {
		return nil, err
	}
	if wallet.OwnerID != ownerID {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "only the wallet owner can modify it")
	}
	return wallet, nil
}

// UpdateWallet renames or re-labels a wallet. Owner only.
func (s *walletService) UpdateWallet(ctx context.Context, walletID, ownerID string, update WalletUpdate) (*models.Wallet, error) {
	db := s.db.WithContext(ctx)
	wallet, err := getOwnedWallet(db, walletID, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name cannot be empty")
		}
		updates["name"] = name
		wallet.Name = name
	}
	if update.Emoji != nil && *update.Emoji != "" {
		updates["emoji"] = *update.Emoji
		wallet.Emoji = *update.Emoji
	}
	if len(updates) == 0 {
		return wallet, nil
	}

	// balance is never written here; AdjustBalance owns it.
	if err := db.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// DeleteWallet removes a wallet with all of its transactions and memberships
// in one database transaction. Owner only.
func (s *walletService) DeleteWallet(ctx context.Context, walletID, ownerID string) error {
	db := s.db.WithContext(ctx)
	if _, err := getOwnedWallet(db, walletID, ownerID); err != nil {
		return err
	}

	var removed int64
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the wallet so no record/remove can interleave with the cascade.
		var locked models.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", walletID, ownerID).
			First(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrWalletNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		res := tx.Where("wallet_id = ?", walletID).Delete(&models.Transaction{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Where("wallet_id = ?", walletID).Delete(&models.WalletMember{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", walletID).Delete(&models.Wallet{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Named("ledger").Infow("Wallet deleted",
		"wallet_id", walletID,
		"transactions_removed", removed)

	publishEvent(ctx, s.publisher, events.Event{
		Type:       events.WalletDeleted,
		WalletID:   walletID,
		UserID:     ownerID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// AdjustBalance adds delta to the wallet's balance. It must run on the same tx
// as the ledger row change it compensates. The row is locked and the sum is
// taken in decimal so that a REAL-backed column (SQLite) never accumulates
// float error: every write stores the exact decimal result.
func (s *walletService) AdjustBalance(tx *gorm.DB, walletID string, delta decimal.Decimal) error {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "balance").
		Where("id = ?", walletID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrWalletNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	res := tx.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", wallet.Balance.Add(delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected != 1 {
		return apperrors.ErrWalletNotFound
	}
	return nil
}

// publishEvent sends a ledger event after commit. Failures are logged only.
func publishEvent(ctx context.Context, publisher events.Publisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.Named("events").Warnw("Failed to publish ledger event",
			"type", event.Type,
			"wallet_id", event.WalletID,
			"error", err)
	}
}
