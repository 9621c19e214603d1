// Package settlement implements the wager settlement engine: stake
// validation against game limits, atomic debit, win/lose resolution, payout
// distribution between bettor and game creator, and the append-only audit
// record.
//
// The engine holds no locks and performs no compare-and-swap of its own;
// correctness under concurrent settlements rests entirely on the account
// store's atomic adjust semantics.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/events"
	"github.com/nightmarket/betledger/internal/repos/accounts"
	"github.com/nightmarket/betledger/internal/repos/bets"
	"github.com/nightmarket/betledger/internal/repos/games"
)

var (
	// ErrInvalidAmount rejects non-positive or malformed amounts before any
	// balance mutation.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrOutOfBounds rejects amounts outside the game's [min_bet, max_bet].
	ErrOutOfBounds = errors.New("amount outside game limits")

	// ErrSettlementFailed reports a wager whose payout credit could not
	// complete after bounded retries. The stake has been refunded: the
	// bettor's funds are intact and the wager can be retried.
	ErrSettlementFailed = errors.New("settlement failed")
)

// Outcome is the caller-visible result of a settled wager.
//
// BetID is empty when the audit record could not be written; the funds
// movement stands regardless.
type Outcome struct {
	Ref     string
	BetID   string
	Result  bets.Result
	Payout  decimal.Decimal
	Balance decimal.Decimal
}

const (
	defaultWinProbability = 0.5
	defaultCreditAttempts = 3
	defaultCreditBackoff  = 100 * time.Millisecond
	defaultPublishTimeout = 5 * time.Second
)

var two = decimal.NewFromInt(2)

type Engine struct {
	accounts  accounts.Accounts
	games     games.Games
	bets      bets.Bets
	publisher events.Publisher

	winProb        float64
	randFloat      func() float64
	creditAttempts int
	creditBackoff  time.Duration
	publishTimeout time.Duration
}

type Option func(*Engine)

// WithWinProbability sets the per-settlement win probability in [0,1].
func WithWinProbability(p float64) Option {
	return func(e *Engine) { e.winProb = p }
}

// WithRandSource replaces the randomness source. f must return values in
// [0,1); a settlement wins when f() < the win probability. Tests substitute
// a fixed source to force outcomes.
func WithRandSource(f func() float64) Option {
	return func(e *Engine) { e.randFloat = f }
}

// WithCreditRetry bounds the payout credit retry loop.
func WithCreditRetry(attempts int, backoff time.Duration) Option {
	return func(e *Engine) {
		if attempts > 0 {
			e.creditAttempts = attempts
		}
		e.creditBackoff = backoff
	}
}

// WithPublisher sets the settled-bet event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func New(acc accounts.Accounts, gms games.Games, ledger bets.Bets, opts ...Option) *Engine {
	e := &Engine{
		accounts:       acc,
		games:          gms,
		bets:           ledger,
		publisher:      events.Noop{},
		winProb:        defaultWinProbability,
		randFloat:      rand.Float64,
		creditAttempts: defaultCreditAttempts,
		creditBackoff:  defaultCreditBackoff,
		publishTimeout: defaultPublishTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SettleWager validates the wager, debits the stake, resolves the outcome
// and distributes funds:
//
//   - WIN: the bettor is credited twice the stake (stake back plus equal
//     winnings); the game creator is untouched.
//   - LOSE: the game creator receives the stake.
//
// Validation failures (invalid amount, unknown game, out-of-bounds,
// insufficient funds) return before any mutation. Once the stake is
// debited the settlement always terminates with funds accounted for: the
// payout credit is retried a bounded number of times and, on exhaustion,
// the stake is refunded and ErrSettlementFailed returned. The audit record
// is best-effort and never rolls back a completed transfer.
func (e *Engine) SettleWager(ctx context.Context, bettorID, gameID string, amount decimal.Decimal) (Outcome, error) {
	ref := uuid.NewString()

	if amount.Sign() <= 0 {
		rejections.WithLabelValues("invalid_amount").Inc()
		return Outcome{}, fmt.Errorf("amount must be positive, got %s: %w", amount, ErrInvalidAmount)
	}

	game, err := e.games.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			rejections.WithLabelValues("unknown_game").Inc()
			return Outcome{}, err
		}

		return Outcome{}, fmt.Errorf("resolve game %s: %w", gameID, err)
	}

	if amount.LessThan(game.MinBet) || amount.GreaterThan(game.MaxBet) {
		rejections.WithLabelValues("out_of_bounds").Inc()
		return Outcome{}, fmt.Errorf("amount %s outside [%s, %s]: %w",
			amount, game.MinBet, game.MaxBet, ErrOutOfBounds)
	}

	balance, err := e.accounts.AdjustBalance(ctx, bettorID, amount.Neg())
	if err != nil {
		if errors.Is(err, accounts.ErrInsufficientFunds) {
			rejections.WithLabelValues("insufficient_funds").Inc()
			return Outcome{}, err
		}

		return Outcome{}, fmt.Errorf("debit stake: %w", err)
	}

	// The stake has left the bettor's account. From here the settlement
	// must run to completion even if the caller's context is canceled.
	ctx = context.WithoutCancel(ctx)

	result := bets.ResultLose
	payout := decimal.Zero
	creditTo := game.CreatedBy
	creditAmount := amount

	if e.randFloat() < e.winProb {
		result = bets.ResultWin
		payout = amount.Mul(two)
		creditTo = bettorID
		creditAmount = payout
	}

	credited, err := e.creditWithRetry(ctx, creditTo, creditAmount)
	if err != nil {
		e.compensate(ctx, ref, bettorID, amount, err)
		return Outcome{}, fmt.Errorf("credit %s after %s: %w", creditTo, result, ErrSettlementFailed)
	}

	if result == bets.ResultWin {
		balance = credited
	}

	betID, err := e.bets.Record(ctx, bettorID, gameID, amount, result)
	if err != nil {
		ledgerWriteFailures.Inc()
		slog.Warn("bet ledger write failed, funds already moved",
			"ref", ref, "bettor", bettorID, "game", gameID,
			"amount", amount, "result", result, "error", err)
		betID = ""
	}

	settlements.WithLabelValues(string(result)).Inc()

	e.publishSettled(events.BetSettled{
		Ref:       ref,
		BetID:     betID,
		UserID:    bettorID,
		GameID:    gameID,
		Amount:    amount,
		Result:    string(result),
		Payout:    payout,
		SettledAt: time.Now().UTC(),
	})

	return Outcome{
		Ref:     ref,
		BetID:   betID,
		Result:  result,
		Payout:  payout,
		Balance: balance,
	}, nil
}

// Deposit credits the account. Not a wager: it bypasses the settlement
// state machine entirely.
func (e *Engine) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("deposit must be positive, got %s: %w", amount, ErrInvalidAmount)
	}

	balance, err := e.accounts.AdjustBalance(ctx, accountID, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("deposit: %w", err)
	}

	return balance, nil
}

// Withdraw debits the account; the store rejects overdrafts.
func (e *Engine) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("withdrawal must be positive, got %s: %w", amount, ErrInvalidAmount)
	}

	balance, err := e.accounts.AdjustBalance(ctx, accountID, amount.Neg())
	if err != nil {
		if errors.Is(err, accounts.ErrInsufficientFunds) {
			return decimal.Zero, err
		}

		return decimal.Zero, fmt.Errorf("withdraw: %w", err)
	}

	return balance, nil
}

// Balance is a read-only pass-through to the account store.
func (e *Engine) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return e.accounts.GetBalance(ctx, accountID)
}

func (e *Engine) creditWithRetry(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	var lastErr error

	for attempt := 1; attempt <= e.creditAttempts; attempt++ {
		balance, err := e.accounts.AdjustBalance(ctx, accountID, amount)
		if err == nil {
			return balance, nil
		}

		lastErr = err

		if attempt < e.creditAttempts {
			creditRetries.Inc()
			time.Sleep(e.creditBackoff)
		}
	}

	return decimal.Zero, lastErr
}

// compensate refunds a debited stake whose payout credit could not
// complete. A stake must never be silently destroyed; if even the refund
// fails the discrepancy is logged for reconciliation.
func (e *Engine) compensate(ctx context.Context, ref, bettorID string, amount decimal.Decimal, cause error) {
	compensations.Inc()

	_, err := e.creditWithRetry(ctx, bettorID, amount)
	if err != nil {
		strandedStakes.Inc()
		slog.Error("stake refund failed, manual reconciliation required",
			"ref", ref, "bettor", bettorID, "amount", amount,
			"credit_error", cause, "refund_error", err)
		return
	}

	slog.Warn("settlement compensated, stake refunded",
		"ref", ref, "bettor", bettorID, "amount", amount, "credit_error", cause)
}

// publishSettled emits the event in the background with its own timeout so
// a slow broker never blocks a settlement.
func (e *Engine) publishSettled(event events.BetSettled) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.publishTimeout)
		defer cancel()

		err := e.publisher.PublishBetSettled(ctx, event)
		if err != nil {
			publishFailures.Inc()
			slog.Warn("bet settled event publish failed", "ref", event.Ref, "error", err)
		}
	}()
}
