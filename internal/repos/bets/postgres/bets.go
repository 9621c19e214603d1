package bets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/bets"
)

var _ bets.Bets = (*betsRepo)(nil)

type betsRepo struct{ db *sql.DB }

func New(db *sql.DB) *betsRepo {
	return &betsRepo{db: db}
}

func (r *betsRepo) Record(ctx context.Context, userID, gameID string, amount decimal.Decimal, result bets.Result) (string, error) {
	if amount.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive: %w", bets.ErrInvalidBet)
	}
	if !result.Valid() {
		return "", fmt.Errorf("unknown result %q: %w", result, bets.ErrInvalidBet)
	}

	id := bets.NewID()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, game_id, amount, result)
		VALUES ($1, $2, $3, $4, $5)
	`, id, userID, gameID, amount, string(result))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return "", fmt.Errorf("duplicate bet id %s: %w", id, bets.ErrInvalidBet)
		}

		return "", fmt.Errorf("insert bet: %w", err)
	}

	return id, nil
}

func (r *betsRepo) ListForUser(ctx context.Context, userID string) ([]bets.Bet, error) {
	return r.list(ctx, `
		SELECT id, user_id, game_id, amount, result, created_at
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (r *betsRepo) ListForGame(ctx context.Context, gameID string) ([]bets.Bet, error) {
	return r.list(ctx, `
		SELECT id, user_id, game_id, amount, result, created_at
		FROM bets
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC
	`, gameID)
}

func (r *betsRepo) list(ctx context.Context, query, arg string) ([]bets.Bet, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	var out []bets.Bet

	for rows.Next() {
		var b bets.Bet
		var result string

		err = rows.Scan(&b.ID, &b.UserID, &b.GameID, &b.Amount, &result, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}

		b.Result = bets.Result(result)
		out = append(out, b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate bets: %w", err)
	}

	return out, nil
}
