package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestEventEncode(t *testing.T) {
	e := Event{
		Type:          TransactionRecorded,
		WalletID:      "w1",
		TransactionID: "t1",
		UserID:        "u1",
		Delta:         decimal.RequireFromString("-350.50"),
		OccurredAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := e.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["type"] != "transaction.recorded" {
		t.Errorf("expected type transaction.recorded, got %v", decoded["type"])
	}
	if decoded["delta"] != -350.5 {
		t.Errorf("expected numeric delta -350.5, got %v", decoded["delta"])
	}
}

func TestAMQPPublisher_Publish(t *testing.T) {
	t.Run("routes_by_event_type", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newAMQPPublisherWithChannel(ch, "cennygrosz.ledger")

		err := p.Publish(context.Background(), Event{Type: WalletDeleted, WalletID: "w1", UserID: "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ch.exchange != "cennygrosz.ledger" {
			t.Errorf("expected exchange cennygrosz.ledger, got %s", ch.exchange)
		}
		if ch.key != "wallet.deleted" {
			t.Errorf("expected routing key wallet.deleted, got %s", ch.key)
		}
		if ch.msg.DeliveryMode != amqp091.Persistent {
			t.Error("expected persistent delivery")
		}
		if ch.msg.ContentType != "application/json" {
			t.Errorf("expected application/json, got %s", ch.msg.ContentType)
		}
	})

	t.Run("propagates_broker_error", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		p := newAMQPPublisherWithChannel(ch, "x")

		if err := p.Publish(context.Background(), Event{Type: TransactionRemoved}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("close_closes_channel", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newAMQPPublisherWithChannel(ch, "x")
		if err := p.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ch.closed {
			t.Error("expected channel to be closed")
		}
	})
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	if err := p.Publish(context.Background(), Event{Type: TransactionRecorded}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
