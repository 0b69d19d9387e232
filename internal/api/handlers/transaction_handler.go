package handlers

import (
	"context"
	"gw-currency-trader/internal/api/middlew"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/service"
	"gw-currency-trader/pkg/response"
	"net/http"

	"github.com/google/uuid"
)

type TransactionHandler struct {
	trades       service.Trade
	transactions service.Transactions
}

func NewTransactionHandler(trades service.Trade, transactions service.Transactions) *TransactionHandler {
	return &TransactionHandler{
		trades:       trades,
		transactions: transactions,
	}
}

// List godoc
// @Summary      Transaction history
// @Description  Every ledger entry of the user in the order it was written
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.TransactionResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /transactions/transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListTransactions"
	log := middlew.GetLogger(r.Context())

	txns, err := h.transactions.List(r.Context(), middlew.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	resp := make([]models.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, t.ToResponse())
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// Buy godoc
// @Summary      Buy a currency for PLN
// @Description  Pays amount * ask in PLN and credits amount in the currency
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.TradeRequest true "Trade"
// @Success      200 {object} models.TradeResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /transactions/transaction/buy [post]
func (h *TransactionHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, "handler.Buy", h.trades.Buy)
}

// Sell godoc
// @Summary      Sell a currency for PLN
// @Description  Debits amount in the currency and credits amount * bid in PLN
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.TradeRequest true "Trade"
// @Success      200 {object} models.TradeResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /transactions/transaction/sell [post]
func (h *TransactionHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, "handler.Sell", h.trades.Sell)
}

type tradeFunc func(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error)

func (h *TransactionHandler) trade(w http.ResponseWriter, r *http.Request, op string, do tradeFunc) {
	log := middlew.GetLogger(r.Context())

	var req models.TradeRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, log, op, err)
		return
	}

	res, err := do(r.Context(), middlew.GetUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.TradeResponse{
		Message:              "Transaction completed",
		FinalPLNBalance:      models.FormatAmount(res.FinalPLNBalance),
		FinalCurrencyBalance: models.FormatAmount(res.FinalCurrencyBalance),
		Price:                models.FormatAmount(res.Price),
	})
}
