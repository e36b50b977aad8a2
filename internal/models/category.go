package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// IsValid reports whether t is income or expense.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category is a user-defined label. Transactions copy the name rather than
// referencing it, so deleting a category never touches existing entries.
type Category struct {
	Base
	UserID string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string       `gorm:"not null" json:"name"`
	Emoji  string       `json:"emoji"`
	Type   CategoryType `gorm:"not null" json:"type"`
}
