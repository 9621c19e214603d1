package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nightmarket/betledger/internal/repos/accounts"
	"github.com/nightmarket/betledger/internal/repos/bets"
	"github.com/nightmarket/betledger/internal/repos/games"
	"github.com/nightmarket/betledger/internal/services/settlement"
)

// HandlerProvider exposes the settlement engine and the read-only
// projections over HTTP.
type HandlerProvider struct {
	engine  *settlement.Engine
	catalog games.Games
	ledger  bets.Bets
}

func NewHandler(eng *settlement.Engine, catalog games.Games, ledger bets.Bets) *HandlerProvider {
	return &HandlerProvider{engine: eng, catalog: catalog, ledger: ledger}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func accountIDFromPath(r *http.Request) (string, error) {
	id := chi.URLParam(r, "accountID")
	if id == "" {
		return "", fmt.Errorf("missing accountID")
	}
	return id, nil
}

// parseAmount accepts a positive decimal string with at most two fractional
// digits. Parsing rejects NaN/Inf-style input outright; the scale cap keeps
// amounts within the ledger's fixed-point precision.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}
	if d.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("amount supports up to 2 decimals")
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("amount must be > 0")
	}
	return d, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}
		return fmt.Errorf("invalid JSON")
	}

	return nil
}

type betView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	GameID    string    `json:"gameId"`
	Amount    string    `json:"amount"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBetViews(records []bets.Bet) []betView {
	out := make([]betView, 0, len(records))
	for _, b := range records {
		out = append(out, betView{
			ID:        b.ID,
			UserID:    b.UserID,
			GameID:    b.GameID,
			Amount:    b.Amount.StringFixed(2),
			Result:    string(b.Result),
			CreatedAt: b.CreatedAt,
		})
	}
	return out
}

// --- Handlers ---

// GetBalanceHandler handles GET /accounts/{accountID}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	balance, err := h.engine.Balance(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": accountID,
		"balance":   balance.StringFixed(2),
	})
}

type amountRequest struct {
	Amount string `json:"amount"`
}

// DepositHandler handles POST /accounts/{accountID}/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.adjustHandler(w, r, h.engine.Deposit)
}

// WithdrawHandler handles POST /accounts/{accountID}/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.adjustHandler(w, r, h.engine.Withdraw)
}

func (h *HandlerProvider) adjustHandler(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error),
) {
	accountID, err := accountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	var req amountRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := op(r.Context(), accountID, amount)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "invalid amount")
		case errors.Is(err, accounts.ErrInsufficientFunds):
			writeError(w, http.StatusConflict, "insufficient funds")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": accountID,
		"balance":   balance.StringFixed(2),
	})
}

type wagerRequest struct {
	GameID string `json:"gameId"`
	Amount string `json:"amount"`
}

// PlaceWagerHandler handles POST /accounts/{accountID}/wagers
func (h *HandlerProvider) PlaceWagerHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	var req wagerRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.GameID == "" {
		writeError(w, http.StatusBadRequest, "gameId required")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.engine.SettleWager(r.Context(), accountID, req.GameID, amount)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidAmount),
			errors.Is(err, settlement.ErrOutOfBounds):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, games.ErrGameNotFound):
			writeError(w, http.StatusNotFound, "game not found")
		case errors.Is(err, accounts.ErrInsufficientFunds):
			writeError(w, http.StatusConflict, "insufficient funds")
		case errors.Is(err, settlement.ErrSettlementFailed):
			// funds intact; the client should retry
			writeError(w, http.StatusBadGateway, "wager not settled, funds intact, try again")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"betId":   out.BetID,
		"result":  string(out.Result),
		"payout":  out.Payout.StringFixed(2),
		"balance": out.Balance.StringFixed(2),
	})
}

// ListUserBetsHandler handles GET /accounts/{accountID}/bets
func (h *HandlerProvider) ListUserBetsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	records, err := h.ledger.ListForUser(r.Context(), accountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toBetViews(records))
}

// ListGameBetsHandler handles GET /games/{gameID}/bets
func (h *HandlerProvider) ListGameBetsHandler(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "invalid gameID in path")
		return
	}

	records, err := h.ledger.ListForGame(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toBetViews(records))
}

// ListGamesHandler handles GET /games
func (h *HandlerProvider) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if catalog == nil {
		catalog = []games.Game{}
	}

	writeJSON(w, http.StatusOK, catalog)
}
