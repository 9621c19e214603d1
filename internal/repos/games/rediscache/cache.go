// Package rediscache decorates a Games source with a read-through Redis
// cache. Game limits sit on the hot path of every settlement and change
// rarely, so short-TTL caching takes the catalog reads off the database.
//
// Cache failures are never fatal: on any Redis error the lookup falls
// through to the source and the error is logged at debug.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nightmarket/betledger/internal/repos/games"
)

var _ games.Games = (*Cache)(nil)

type Cache struct {
	source games.Games
	client *redis.Client
	ttl    time.Duration
}

func New(source games.Games, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{source: source, client: client, ttl: ttl}
}

func key(gameID string) string { return "games:limits:" + gameID }

func (c *Cache) Get(ctx context.Context, gameID string) (games.Game, error) {
	raw, err := c.client.Get(ctx, key(gameID)).Bytes()
	if err == nil {
		var g games.Game
		if jerr := json.Unmarshal(raw, &g); jerr == nil {
			return g, nil
		}
		// poisoned entry; refetch and overwrite below
	} else if !errors.Is(err, redis.Nil) {
		slog.Debug("game cache read failed", "game_id", gameID, "error", err)
	}

	g, err := c.source.Get(ctx, gameID)
	if err != nil {
		return games.Game{}, err
	}

	buf, err := json.Marshal(g)
	if err == nil {
		serr := c.client.Set(ctx, key(gameID), buf, c.ttl).Err()
		if serr != nil {
			slog.Debug("game cache write failed", "game_id", gameID, "error", serr)
		}
	}

	return g, nil
}

// List always goes to the source; the catalog listing is not hot.
func (c *Cache) List(ctx context.Context) ([]games.Game, error) {
	return c.source.List(ctx)
}
