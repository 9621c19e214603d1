// Package events defines the settled-bet event stream. Publishing is a
// best-effort side channel: a failed publish is logged, never propagated
// into a settlement outcome.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BetSettled is emitted once per completed settlement.
type BetSettled struct {
	Ref       string          `json:"ref"`
	BetID     string          `json:"bet_id,omitempty"`
	UserID    string          `json:"user_id"`
	GameID    string          `json:"game_id"`
	Amount    decimal.Decimal `json:"amount"`
	Result    string          `json:"result"`
	Payout    decimal.Decimal `json:"payout"`
	SettledAt time.Time       `json:"settled_at"`
}

type Publisher interface {
	PublishBetSettled(ctx context.Context, event BetSettled) error
}

// Noop discards events. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishBetSettled(context.Context, BetSettled) error { return nil }
