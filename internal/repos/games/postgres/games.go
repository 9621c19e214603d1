package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nightmarket/betledger/internal/repos/games"
)

var _ games.Games = (*gamesRepo)(nil)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

func (r *gamesRepo) Get(ctx context.Context, gameID string) (games.Game, error) {
	var g games.Game

	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, min_bet, max_bet, created_by
		FROM games
		WHERE id = $1
	`, gameID).Scan(&g.ID, &g.Title, &g.MinBet, &g.MaxBet, &g.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return games.Game{}, games.ErrGameNotFound
		}

		return games.Game{}, fmt.Errorf("get game: %w", err)
	}

	return g, nil
}

func (r *gamesRepo) List(ctx context.Context) ([]games.Game, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, min_bet, max_bet, created_by
		FROM games
		ORDER BY title, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []games.Game

	for rows.Next() {
		var g games.Game

		err = rows.Scan(&g.ID, &g.Title, &g.MinBet, &g.MaxBet, &g.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}

		out = append(out, g)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	return out, nil
}
