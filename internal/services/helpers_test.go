package services

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/events"
)

// recordingPublisher captures published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func (p *recordingPublisher) last() events.Event {
	all := p.all()
	if len(all) == 0 {
		return events.Event{}
	}
	return all[len(all)-1]
}

var errBrokerDown = errors.New("broker unreachable")

var errBalanceStore = errors.New("balance update rejected")

// failingBalances is a WalletServicer whose balance updates always fail.
type failingBalances struct {
	WalletServicer
}

func (failingBalances) AdjustBalance(*gorm.DB, string, decimal.Decimal) error {
	return apperrors.Wrap(apperrors.ErrInternalServer, errBalanceStore)
}
