// Package games exposes the game catalog to the ledger. The ledger only
// reads games; creating and editing them is an external concern.
package games

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrGameNotFound is returned when a game id does not resolve.
var ErrGameNotFound = errors.New("game not found")

// Game carries the wager limits and the counterparty account of one game.
// CreatedBy receives lost stakes.
type Game struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	MinBet    decimal.Decimal `json:"minBet"`
	MaxBet    decimal.Decimal `json:"maxBet"`
	CreatedBy string          `json:"createdBy"`
}

type Games interface {
	Get(ctx context.Context, gameID string) (Game, error)
	List(ctx context.Context) ([]Game, error)
}
