// Package accounts defines the account balance store: the single source of
// truth for live balances and the only component allowed to mutate one.
package accounts

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned by GetBalance for accounts that have
	// never been touched by a balance-affecting operation.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a negative adjustment would
	// drive the balance below zero. The balance is left unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Accounts is the balance store contract.
//
// AdjustBalance must apply the delta atomically with respect to all other
// adjustments on the same account: the increment happens at the storage
// layer in a single conditional operation, never as a read followed by a
// write of a caller-computed value. A positive delta on an unknown account
// creates it implicitly.
type Accounts interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error)
}
