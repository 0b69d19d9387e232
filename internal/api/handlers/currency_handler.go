package handlers

import (
	"fmt"
	"gw-currency-trader/internal/api/middlew"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/service"
	"gw-currency-trader/pkg/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type CurrencyHandler struct {
	service service.Rates
}

func NewCurrencyHandler(service service.Rates) *CurrencyHandler {
	return &CurrencyHandler{service: service}
}

// GetAllRates godoc
// @Summary      Latest rates
// @Description  Latest known bid/ask of every currency, keyed by code
// @Tags         currency
// @Produce      json
// @Success      200 {object} map[string]models.CurrencyRateResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /currency/currency-rates [get]
func (h *CurrencyHandler) GetAllRates(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetAllRates"
	log := middlew.GetLogger(r.Context())

	rates, err := h.service.AllLatest(r.Context())
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	resp := make(map[string]models.CurrencyRateResponse, len(rates))
	for code, rate := range rates {
		resp[code] = rate.ToResponse()
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// GetRates godoc
// @Summary      Rate history of one currency
// @Description  Rates in ascending date order. Without bounds the last seven days are returned.
// @Tags         currency
// @Produce      json
// @Param        code path string true "Currency code"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {array} models.CurrencyRateResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /currency/currency-rates/{code} [get]
func (h *CurrencyHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetRates"
	log := middlew.GetLogger(r.Context())

	code := chi.URLParam(r, "code")
	query := r.URL.Query()

	rates, err := h.service.Range(r.Context(), code, query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	resp := make([]models.CurrencyRateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, rate.ToResponse())
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// DeleteOldRates godoc
// @Summary      Delete old rates
// @Description  Removes all rates of every currency that has no quote on the retention day (the newest stored quote date unless RATES_RETENTION_DATE is set)
// @Tags         currency
// @Produce      json
// @Success      200 {object} models.DeleteRatesResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /currency/delete-old-currency-rates [delete]
func (h *CurrencyHandler) DeleteOldRates(w http.ResponseWriter, r *http.Request) {
	const op = "handler.DeleteOldRates"
	log := middlew.GetLogger(r.Context())

	deleted, keepDate, err := h.service.DeleteOld(r.Context(), nil)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	log.Info("old rates deleted", slog.String("op", op), slog.Int64("deleted", deleted))

	response.WriteJSONSuccess(w, log, http.StatusOK, models.DeleteRatesResponse{
		Message:  fmt.Sprintf("Deleted %d rates of currencies without a quote on %s", deleted, keepDate.Format(models.DateLayout)),
		Deleted:  deleted,
		KeepDate: keepDate.Format(models.DateLayout),
	})
}
