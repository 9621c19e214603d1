package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nightmarket/betledger/internal/repos/bets"
	"github.com/nightmarket/betledger/internal/repos/games"
	"github.com/nightmarket/betledger/internal/services/settlement"
)

// NewRouter registers all endpoints of the settlement API. The engine owns
// every balance-affecting operation; the catalog and ledger are read-only
// projections.
func NewRouter(eng *settlement.Engine, catalog games.Games, ledger bets.Bets) http.Handler {
	h := NewHandler(eng, catalog, ledger)
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestLogger())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/accounts/{accountID}", func(r chi.Router) {
		r.Get("/balance", h.GetBalanceHandler)
		r.Post("/deposit", h.DepositHandler)
		r.Post("/withdraw", h.WithdrawHandler)
		r.Post("/wagers", h.PlaceWagerHandler)
		r.Get("/bets", h.ListUserBetsHandler)
	})

	r.Get("/games", h.ListGamesHandler)
	r.Get("/games/{gameID}/bets", h.ListGameBetsHandler)

	return r
}

func requestLogger() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.Default(),
		&httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
				}
			},
		},
	)
}
