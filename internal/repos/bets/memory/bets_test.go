package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/bets"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	ledger := New()

	for _, amount := range []string{"0", "-5.00"} {
		_, err := ledger.Record(context.Background(), "alice", "g-1", dec(amount), bets.ResultWin)
		if !errors.Is(err, bets.ErrInvalidBet) {
			t.Fatalf("amount %s: want ErrInvalidBet, got %v", amount, err)
		}
	}
}

func TestRecord_RejectsUnknownResult(t *testing.T) {
	t.Parallel()

	ledger := New()

	_, err := ledger.Record(context.Background(), "alice", "g-1", dec("10.00"), bets.Result("DRAW"))
	if !errors.Is(err, bets.ErrInvalidBet) {
		t.Fatalf("want ErrInvalidBet, got %v", err)
	}
}

func TestListForUser_MostRecentFirst(t *testing.T) {
	t.Parallel()

	ledger := New()
	ctx := context.Background()

	amounts := []string{"10.00", "20.00", "30.00"}
	ids := make([]string, 0, len(amounts))
	for _, a := range amounts {
		id, err := ledger.Record(ctx, "alice", "g-1", dec(a), bets.ResultLose)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		ids = append(ids, id)
	}

	// other users' records must not leak in
	_, err := ledger.Record(ctx, "bob", "g-1", dec("99.00"), bets.ResultWin)
	if err != nil {
		t.Fatalf("record bob: %v", err)
	}

	got, err := ledger.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("want 3 bets, got %d", len(got))
	}

	for i, want := range []string{"30.00", "20.00", "10.00"} {
		if !got[i].Amount.Equal(dec(want)) {
			t.Fatalf("bet[%d] amount: want %s, got %s", i, want, got[i].Amount)
		}
	}

	if got[0].ID != ids[2] || got[2].ID != ids[0] {
		t.Fatalf("ids not most-recent-first: %v vs recorded %v", []string{got[0].ID, got[1].ID, got[2].ID}, ids)
	}
}

func TestListForGame_FreshSnapshotPerCall(t *testing.T) {
	t.Parallel()

	ledger := New()
	ctx := context.Background()

	_, err := ledger.Record(ctx, "alice", "g-1", dec("10.00"), bets.ResultWin)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	first, err := ledger.ListForGame(ctx, "g-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	_, err = ledger.Record(ctx, "bob", "g-1", dec("20.00"), bets.ResultLose)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	second, err := ledger.ListForGame(ctx, "g-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(first) != 1 || len(second) != 2 {
		t.Fatalf("want snapshots of 1 and 2 records, got %d and %d", len(first), len(second))
	}
}

func TestNewID_Monotonic(t *testing.T) {
	t.Parallel()

	prev := bets.NewID()
	for range 100 {
		next := bets.NewID()
		if next <= prev {
			t.Fatalf("ids not strictly increasing: %s then %s", prev, next)
		}
		prev = next
	}
}
