// Package bets defines the append-only wager ledger: every settled bet is
// recorded once and never mutated or deleted afterwards.
package bets

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidBet is returned by Record for a non-positive amount.
var ErrInvalidBet = errors.New("invalid bet")

// Result is the terminal outcome of a wager. Pending is reserved for future
// asynchronous settlement and is never written by the current engine.
type Result string

const (
	ResultPending Result = "PENDING"
	ResultWin     Result = "WIN"
	ResultLose    Result = "LOSE"
)

// Valid reports whether r is one of the known results.
func (r Result) Valid() bool {
	switch r {
	case ResultPending, ResultWin, ResultLose:
		return true
	default:
		return false
	}
}

// Bet is one immutable ledger record.
type Bet struct {
	ID        string
	UserID    string
	GameID    string
	Amount    decimal.Decimal
	Result    Result
	CreatedAt time.Time
}

// Bets is the ledger contract. Record appends; the list operations return a
// fresh most-recent-first snapshot on every call. There is no update or
// delete.
type Bets interface {
	Record(ctx context.Context, userID, gameID string, amount decimal.Decimal, result Result) (string, error)
	ListForUser(ctx context.Context, userID string) ([]Bet, error)
	ListForGame(ctx context.Context, gameID string) ([]Bet, error)
}
