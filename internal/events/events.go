// Package events publishes ledger change notifications to a message broker.
// Publishing happens after the database commit and is best-effort: a broker
// failure is logged by the caller and never undoes a ledger mutation.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Type names a ledger event. It doubles as the AMQP routing key.
type Type string

const (
	TransactionRecorded Type = "transaction.recorded"
	TransactionRemoved  Type = "transaction.removed"
	WalletDeleted       Type = "wallet.deleted"
)

// Event describes a committed change to a wallet's ledger.
type Event struct {
	Type          Type            `json:"type"`
	WalletID      string          `json:"wallet_id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	UserID        string          `json:"user_id"`
	Delta         decimal.Decimal `json:"delta"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Encode returns the JSON wire form of the event.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

// NewNopPublisher returns a Publisher that does nothing.
func NewNopPublisher() Publisher { return NopPublisher{} }

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
