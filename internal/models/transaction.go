package models

import "github.com/shopspring/decimal"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is an immutable income or expense entry against one wallet.
// Amount is always a non-negative magnitude; Type carries the sign.
type Transaction struct {
	Base
	WalletID string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	UserID   string          `gorm:"type:uuid;not null" json:"user_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Type     TransactionType `gorm:"not null" json:"type"`
	Category string          `gorm:"not null" json:"category"`
	Emoji    string          `json:"emoji"`
	Note     *string         `json:"note"`
}

// SignedAmount is the effect this transaction has on its wallet balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
