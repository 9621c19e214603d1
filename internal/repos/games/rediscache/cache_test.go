package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/games"
	"github.com/nightmarket/betledger/internal/repos/games/memory"
)

// unreachableClient returns a client whose every command fails fast, to
// exercise the fall-through path.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestGet_FallsThroughWhenRedisDown(t *testing.T) {
	t.Parallel()

	source := memory.New(games.Game{
		ID:        "g-1",
		Title:     "Roulette",
		MinBet:    decimal.RequireFromString("10"),
		MaxBet:    decimal.RequireFromString("50"),
		CreatedBy: "house",
	})

	cache := New(source, unreachableClient(), time.Minute)

	g, err := cache.Get(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if g.Title != "Roulette" || g.CreatedBy != "house" {
		t.Fatalf("unexpected game: %+v", g)
	}
}

func TestGet_UnknownGamePropagates(t *testing.T) {
	t.Parallel()

	cache := New(memory.New(), unreachableClient(), time.Minute)

	_, err := cache.Get(context.Background(), "missing")
	if !errors.Is(err, games.ErrGameNotFound) {
		t.Fatalf("want ErrGameNotFound, got %v", err)
	}
}

func TestList_PassesThrough(t *testing.T) {
	t.Parallel()

	source := memory.New(
		games.Game{ID: "g-2", Title: "Blackjack", MinBet: decimal.RequireFromString("1"), MaxBet: decimal.RequireFromString("100"), CreatedBy: "house"},
		games.Game{ID: "g-1", Title: "Roulette", MinBet: decimal.RequireFromString("10"), MaxBet: decimal.RequireFromString("50"), CreatedBy: "house"},
	)

	cache := New(source, unreachableClient(), time.Minute)

	got, err := cache.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Blackjack" {
		t.Fatalf("unexpected listing: %+v", got)
	}
}
