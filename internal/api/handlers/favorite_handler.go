package handlers

import (
	"gw-currency-trader/internal/api/middlew"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/service"
	"gw-currency-trader/pkg/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	service service.Favorites
}

func NewFavoriteHandler(service service.Favorites) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// List godoc
// @Summary      Favorite currencies
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.FavoritesResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /user/favorites [get]
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListFavorites"
	log := middlew.GetLogger(r.Context())

	codes, err := h.service.List(r.Context(), middlew.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.FavoritesResponse{FavoriteCurrencies: codes})
}

// Add godoc
// @Summary      Add a favorite currency
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.FavoriteRequest true "Currency"
// @Success      201 {object} models.MessageResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /user/favorites [post]
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handler.AddFavorite"
	log := middlew.GetLogger(r.Context())

	var req models.FavoriteRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, log, op, err)
		return
	}

	if err := h.service.Add(r.Context(), middlew.GetUserID(r.Context()), req.CurrencyCode); err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, models.MessageResponse{Message: "Currency added to favorites"})
}

// Remove godoc
// @Summary      Remove a favorite currency
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Currency code"
// @Success      200 {object} models.MessageResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /user/favorites/{code} [delete]
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handler.RemoveFavorite"
	log := middlew.GetLogger(r.Context())

	code := chi.URLParam(r, "code")
	if err := h.service.Remove(r.Context(), middlew.GetUserID(r.Context()), code); err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.MessageResponse{Message: "Currency removed from favorites"})
}
