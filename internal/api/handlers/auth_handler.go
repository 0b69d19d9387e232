package handlers

import (
	"gw-currency-trader/internal/api/middlew"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/service"
	"gw-currency-trader/pkg/response"
	"log/slog"
	"net/http"
)

type AuthHandler struct {
	service service.Auth
}

func NewAuthHandler(service service.Auth) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// Register godoc
// @Summary      Register a user
// @Description  Creates a user together with an empty PLN wallet
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body models.RegisterRequest true "Registration data"
// @Success      201 {object} models.MessageResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Register"
	log := middlew.GetLogger(r.Context())

	var req models.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, log, op, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, resp)
}

// Login godoc
// @Summary      Log in
// @Description  Checks the credentials and returns a JWT access token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body models.LoginRequest true "Credentials"
// @Success      200 {object} models.LoginResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Login"
	log := middlew.GetLogger(r.Context())

	var req models.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		writeInvalidJSON(w, log, op, err)
		return
	}

	log.Info("user login attempt", slog.String("op", op), slog.String("email", req.Email))

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// Profile godoc
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.ProfileResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /user/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Profile"
	log := middlew.GetLogger(r.Context())

	resp, err := h.service.Profile(r.Context(), middlew.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}
