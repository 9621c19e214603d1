package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ db *sql.DB }

func New(db *sql.DB) *accountsRepo {
	return &accountsRepo{db: db}
}

func (r *accountsRepo) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE id = $1
	`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, accounts.ErrAccountNotFound
		}

		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// AdjustBalance applies the delta in a single statement so the check and the
// update cannot be separated by a concurrent writer.
//
// Credits upsert the row, creating the account at zero on first touch.
// Debits are conditional on the resulting balance staying non-negative;
// zero rows affected means the funds were not there (a missing account
// counts as a zero balance).
func (r *accountsRepo) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal

	if delta.Sign() >= 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO accounts (id, balance)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE
			SET balance = accounts.balance + EXCLUDED.balance
			RETURNING balance
		`, accountID, delta).Scan(&balance)
		if err != nil {
			return decimal.Zero, fmt.Errorf("credit balance: %w", err)
		}

		return balance, nil
	}

	err := r.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET balance = balance + $2
		WHERE id = $1
		  AND balance + $2 >= 0
		RETURNING balance
	`, accountID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, accounts.ErrInsufficientFunds
		}

		return decimal.Zero, fmt.Errorf("debit balance: %w", err)
	}

	return balance, nil
}
