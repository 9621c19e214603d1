// Package memory provides an in-memory Accounts implementation with the same
// semantics as the Postgres repo. Used by unit tests and local runs.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/accounts"
)

var _ accounts.Accounts = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

func New() *Store {
	return &Store{balances: make(map[string]decimal.Decimal)}
}

func (s *Store) GetBalance(_ context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[accountID]
	if !ok {
		return decimal.Zero, accounts.ErrAccountNotFound
	}

	return balance, nil
}

func (s *Store) AdjustBalance(_ context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.balances[accountID].Add(delta)
	if next.Sign() < 0 {
		return decimal.Zero, accounts.ErrInsufficientFunds
	}

	s.balances[accountID] = next

	return next, nil
}

// Seed sets a balance directly, bypassing the adjustment path. Test helper.
func (s *Store) Seed(accountID string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[accountID] = balance
}
