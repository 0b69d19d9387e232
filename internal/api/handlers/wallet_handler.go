package handlers

import (
	"gw-currency-trader/internal/api/middlew"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/service"
	"gw-currency-trader/pkg/response"
	"net/http"
)

type WalletHandler struct {
	service service.Wallet
}

func NewWalletHandler(service service.Wallet) *WalletHandler {
	return &WalletHandler{
		service: service,
	}
}

// GetWallet godoc
// @Summary      Wallet balances
// @Description  Returns every wallet of the user as currency code to balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /user/wallet [get]
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetWallet"
	log := middlew.GetLogger(r.Context())

	balances, err := h.service.Balances(r.Context(), middlew.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, balances.ToResponse())
}

// Deposit godoc
// @Summary      Deposit PLN
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.AmountRequest true "Amount in PLN"
// @Success      200 {object} models.BalanceOperationResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /user/deposit [post]
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Deposit"
	log := middlew.GetLogger(r.Context())

	var req models.AmountRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, log, op, err)
		return
	}

	resp, err := h.service.Deposit(r.Context(), middlew.GetUserID(r.Context()), req.Amount)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// Withdraw godoc
// @Summary      Withdraw PLN
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.AmountRequest true "Amount in PLN"
// @Success      200 {object} models.BalanceOperationResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /user/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Withdraw"
	log := middlew.GetLogger(r.Context())

	var req models.AmountRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, log, op, err)
		return
	}

	resp, err := h.service.Withdraw(r.Context(), middlew.GetUserID(r.Context()), req.Amount)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}
