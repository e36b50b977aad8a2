package models

import (
	"time"

	"cennygrosz/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money is rendered as a JSON number, matching the public API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains common columns for all tables. Records are hard-deleted:
// a removed transaction must not linger next to a balance that no longer counts it.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Wallet{},
		&WalletMember{},
		&Transaction{},
		&Goal{},
		&Category{},
		&ChatMessage{},
	}
}
