package handlers

import (
	"errors"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/pkg/response"
	"log/slog"
	"net/http"
)

// writeServiceError is the single place where domain errors become HTTP
// statuses. Specific errors are matched before the kinds they wrap.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, custom_err.ErrAlreadyFavorite):
		log.Info("currency already in favorites", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusBadRequest, "already_favorite", "Currency is already in favorites")
	case errors.Is(err, custom_err.ErrEmailExists):
		log.Info("email already registered", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusConflict, "email_exists", "Email already exists")
	case errors.Is(err, custom_err.ErrInsufficientFunds):
		log.Info("insufficient funds", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "insufficient_funds", "Insufficient funds")
	case errors.Is(err, custom_err.ErrInvalidInput):
		log.Warn("invalid input", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, custom_err.ErrInvalidCredentials):
		response.WriteJSONError(w, log, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, custom_err.ErrTokenExpired):
		response.WriteJSONError(w, log, http.StatusUnauthorized, "token_expired", "Token has expired")
	case errors.Is(err, custom_err.ErrUnauthorized):
		response.WriteJSONError(w, log, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, custom_err.ErrCurrencyNotFound):
		response.WriteJSONError(w, log, http.StatusNotFound, "currency_not_found", "Currency not found")
	case errors.Is(err, custom_err.ErrCurrencyWalletNotFound):
		response.WriteJSONError(w, log, http.StatusNotFound, "wallet_not_found", "Currency wallet not found")
	case errors.Is(err, custom_err.ErrNotFound):
		response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, custom_err.ErrConflict):
		response.WriteJSONError(w, log, http.StatusConflict, "conflict", "Conflict")
	case errors.Is(err, custom_err.ErrRateLimited):
		response.WriteJSONError(w, log, http.StatusTooManyRequests, "rate_limited", "Too many requests")
	default:
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}

func writeInvalidJSON(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	log.Warn("invalid JSON body", slog.String("op", op), slog.String("error", err.Error()))
	response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
}
