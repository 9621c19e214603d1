package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nightmarket/betledger/internal/api"
	"github.com/nightmarket/betledger/internal/config"
	"github.com/nightmarket/betledger/internal/events"
	eventskafka "github.com/nightmarket/betledger/internal/events/kafka"
	"github.com/nightmarket/betledger/internal/infra/logging"
	"github.com/nightmarket/betledger/internal/infra/pgutils"
	accountspg "github.com/nightmarket/betledger/internal/repos/accounts/postgres"
	betspg "github.com/nightmarket/betledger/internal/repos/bets/postgres"
	"github.com/nightmarket/betledger/internal/repos/games"
	gamespg "github.com/nightmarket/betledger/internal/repos/games/postgres"
	"github.com/nightmarket/betledger/internal/repos/games/rediscache"
	"github.com/nightmarket/betledger/internal/services/settlement"
	"github.com/nightmarket/betledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// best effort; real deployments set env directly
	_ = godotenv.Load()

	cfg, err := config.LoadAPI()
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close db pool")
		return db.Close()
	})

	accountsRepo := accountspg.New(db)
	betsRepo := betspg.New(db)

	var catalog games.Games = gamespg.New(db)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		shutdownqueue.Add(func(context.Context) error {
			slog.Info("Close redis client")
			return rdb.Close()
		})

		catalog = rediscache.New(catalog, rdb, cfg.GameCacheTTL)
		slog.Info("game limit cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.GameCacheTTL)
	}

	var publisher events.Publisher = events.Noop{}

	if len(cfg.KafkaBrokers) > 0 {
		kp := eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)

		shutdownqueue.Add(func(context.Context) error {
			slog.Info("Close kafka writer")
			return kp.Close()
		})

		publisher = kp
		slog.Info("settled-bet events enabled", "topic", cfg.KafkaTopic)
	}

	// --- Core service ---
	eng := settlement.New(accountsRepo, catalog, betsRepo,
		settlement.WithWinProbability(cfg.WinProbability),
		settlement.WithCreditRetry(cfg.CreditRetries, cfg.CreditBackoff),
		settlement.WithPublisher(publisher),
	)

	// --- HTTP server ---
	srv := api.NewServer(cfg.HTTPAddr, api.NewRouter(eng, catalog, betsRepo))

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "addr", cfg.HTTPAddr)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
