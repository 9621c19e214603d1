// Package memory provides an in-memory Bets implementation for unit tests
// and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/bets"
)

var _ bets.Bets = (*Ledger)(nil)

type Ledger struct {
	mu      sync.Mutex
	records []bets.Bet
}

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Record(_ context.Context, userID, gameID string, amount decimal.Decimal, result bets.Result) (string, error) {
	if amount.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive: %w", bets.ErrInvalidBet)
	}
	if !result.Valid() {
		return "", fmt.Errorf("unknown result %q: %w", result, bets.ErrInvalidBet)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := bets.Bet{
		ID:        bets.NewID(),
		UserID:    userID,
		GameID:    gameID,
		Amount:    amount,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	l.records = append(l.records, b)

	return b.ID, nil
}

func (l *Ledger) ListForUser(_ context.Context, userID string) ([]bets.Bet, error) {
	return l.filter(func(b bets.Bet) bool { return b.UserID == userID }), nil
}

func (l *Ledger) ListForGame(_ context.Context, gameID string) ([]bets.Bet, error) {
	return l.filter(func(b bets.Bet) bool { return b.GameID == gameID }), nil
}

// filter returns matching records most-recent-first. Appends happen in
// insertion order, so walking backwards is enough.
func (l *Ledger) filter(keep func(bets.Bet) bool) []bets.Bet {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []bets.Bet
	for i := len(l.records) - 1; i >= 0; i-- {
		if keep(l.records[i]) {
			out = append(out, l.records[i])
		}
	}

	return out
}
