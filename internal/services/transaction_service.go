package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/events"
	"cennygrosz/internal/logger"
	"cennygrosz/internal/models"
	"cennygrosz/internal/pagination"
)

const (
	// DefaultTransactionLimit is used when a listing does not ask for a limit.
	DefaultTransactionLimit = 50

	defaultTransactionEmoji = "💵"
)

// transactionService is the ledger: it keeps every wallet balance equal to
// the signed sum of that wallet's transactions.
type transactionService struct {
	db        *gorm.DB
	wallets   WalletServicer
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, wallets WalletServicer, publisher events.Publisher) TransactionServicer {
	return &transactionService{db: db, wallets: wallets, publisher: publisher}
}

// Record appends a transaction and applies its balance delta atomically.
// The stored amount is the magnitude of in.Amount; in.Type decides the sign.
func (s *transactionService) Record(ctx context.Context, userID string, in RecordInput) (*models.Transaction, error) {
	db := s.db.WithContext(ctx)

	wallet, err := getAccessibleWallet(db, in.WalletID, userID)
	if err != nil {
		return nil, err
	}

	if !in.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	amount := in.Amount.Abs()
	if amount.IsZero() {
		return nil, apperrors.ErrInvalidAmount
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	emoji := in.Emoji
	if emoji == "" {
		emoji = defaultTransactionEmoji
	}

	txn := &models.Transaction{
		WalletID: wallet.ID,
		UserID:   userID,
		Amount:   amount,
		Type:     in.Type,
		Category: category,
		Emoji:    emoji,
		Note:     in.Note,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.wallets.AdjustBalance(tx, wallet.ID, txn.SignedAmount())
	})
	if err != nil {
		return nil, err
	}

	logger.Named("ledger").Infow("Transaction recorded",
		"wallet_id", wallet.ID,
		"transaction_id", txn.ID,
		"delta", txn.SignedAmount().String())

	publishEvent(ctx, s.publisher, events.Event{
		Type:          events.TransactionRecorded,
		WalletID:      wallet.ID,
		TransactionID: txn.ID,
		UserID:        userID,
		Delta:         txn.SignedAmount(),
		OccurredAt:    txn.CreatedAt,
	})

	return txn, nil
}

// Remove deletes a transaction and reverses its balance delta atomically.
// Access to the owning wallet is re-checked on every call.
func (s *transactionService) Remove(ctx context.Context, transactionID, userID string) error {
	db := s.db.WithContext(ctx)

	var txn models.Transaction
	if err := db.Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := getAccessibleWallet(db, txn.WalletID, userID); err != nil {
		return err
	}

	delta := txn.SignedAmount().Neg()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", txn.ID).Delete(&models.Transaction{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		// A concurrent remove already reversed this entry.
		if res.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}
		return s.wallets.AdjustBalance(tx, txn.WalletID, delta)
	})
	if err != nil {
		return err
	}

	logger.Named("ledger").Infow("Transaction removed",
		"wallet_id", txn.WalletID,
		"transaction_id", txn.ID,
		"delta", delta.String())

	publishEvent(ctx, s.publisher, events.Event{
		Type:          events.TransactionRemoved,
		WalletID:      txn.WalletID,
		TransactionID: txn.ID,
		UserID:        userID,
		Delta:         delta,
		OccurredAt:    time.Now().UTC(),
	})

	return nil
}

// List returns transactions from the user's accessible wallets, newest first.
// Asking for a wallet that exists but is not accessible is WALLET_FORBIDDEN.
func (s *transactionService) List(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx)

	limit := pagination.LimitRequest{Limit: filter.Limit}
	limit.Defaults(DefaultTransactionLimit)

	q := db.Model(&models.Transaction{})
	if filter.WalletID != nil {
		if _, err := getAccessibleWallet(db, *filter.WalletID, userID); err != nil {
			if !errors.Is(err, apperrors.ErrWalletNotFound) {
				return nil, err
			}
			exists, existsErr := walletExists(db, *filter.WalletID)
			if existsErr != nil {
				return nil, existsErr
			}
			if exists {
				return nil, apperrors.ErrWalletForbidden
			}
			return nil, apperrors.ErrWalletNotFound
		}
		q = q.Where("wallet_id = ?", *filter.WalletID)
	} else {
		q = q.Where("wallet_id IN (?)", accessibleWalletIDs(db, userID))
	}

	var txns []models.Transaction
	if err := q.Scopes(pagination.Newest, pagination.Limit(limit)).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txns, nil
}

// Get returns one transaction. A transaction in a wallet the user cannot
// access is TRANSACTION_FORBIDDEN rather than not found.
func (s *transactionService) Get(ctx context.Context, transactionID, userID string) (*models.Transaction, error) {
	db := s.db.WithContext(ctx)

	var txn models.Transaction
	if err := db.Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := getAccessibleWallet(db, txn.WalletID, userID); err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			return nil, apperrors.ErrTransactionForbidden
		}
		return nil, err
	}
	return &txn, nil
}

// accessibleWalletIDs is a subquery selecting the ids of every wallet userID
// owns or is a member of.
func accessibleWalletIDs(db *gorm.DB, userID string) *gorm.DB {
	fresh := db.Session(&gorm.Session{NewDB: true})
	members := fresh.Model(&models.WalletMember{}).Select("wallet_id").Where("user_id = ?", userID)
	return fresh.Model(&models.Wallet{}).Select("id").Where("owner_id = ? OR id IN (?)", userID, members)
}

func walletExists(db *gorm.DB, walletID string) (bool, error) {
	var count int64
	if err := db.Model(&models.Wallet{}).Where("id = ?", walletID).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
