package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default personal wallet created on registration.
const (
	DefaultWalletName  = "Mój portfel"
	DefaultWalletEmoji = "💰"
)

// Wallet is a named account with a cached running balance.
// Balance equals the signed sum of the wallet's transactions and is only
// ever changed through an atomic increment inside the ledger's DB transaction.
type Wallet struct {
	Base
	Name     string          `gorm:"not null" json:"name"`
	Emoji    string          `gorm:"not null" json:"emoji"`
	Balance  decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"balance"`
	IsShared bool            `gorm:"not null;default:false" json:"is_shared"`
	OwnerID  string          `gorm:"type:uuid;not null;index" json:"owner_id"`

	Members   []WalletMember `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"-"`
	MemberIDs []string       `gorm:"-" json:"members"`
}

// AfterFind flattens preloaded membership rows into MemberIDs.
func (w *Wallet) AfterFind(tx *gorm.DB) error {
	w.SyncMemberIDs()
	return nil
}

// SyncMemberIDs rebuilds MemberIDs from Members.
func (w *Wallet) SyncMemberIDs() {
	ids := make([]string, 0, len(w.Members))
	for _, m := range w.Members {
		ids = append(ids, m.UserID)
	}
	w.MemberIDs = ids
}

// WalletMember grants a user read/write access to a shared wallet.
type WalletMember struct {
	WalletID string `gorm:"type:uuid;primaryKey" json:"wallet_id"`
	UserID   string `gorm:"type:uuid;primaryKey;index" json:"user_id"`
}
