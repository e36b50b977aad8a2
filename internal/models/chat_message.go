package models

// ChatMessage stores one assistant exchange.
type ChatMessage struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"-"`
	UserMessage string `gorm:"not null" json:"user_message"`
	AIResponse  string `gorm:"not null" json:"ai_response"`
}
