// Package memory provides a map-backed Games implementation for unit tests
// and local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nightmarket/betledger/internal/repos/games"
)

var _ games.Games = (*Catalog)(nil)

type Catalog struct {
	mu    sync.RWMutex
	games map[string]games.Game
}

func New(seed ...games.Game) *Catalog {
	c := &Catalog{games: make(map[string]games.Game, len(seed))}
	for _, g := range seed {
		c.games[g.ID] = g
	}
	return c
}

func (c *Catalog) Get(_ context.Context, gameID string) (games.Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.games[gameID]
	if !ok {
		return games.Game{}, games.ErrGameNotFound
	}

	return g, nil
}

func (c *Catalog) List(_ context.Context) ([]games.Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]games.Game, 0, len(c.games))
	for _, g := range c.games {
		out = append(out, g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
