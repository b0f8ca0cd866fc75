package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/api/response"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// signupRequest has no role field: a role sent by the client is dropped by
// the JSON decoder and every new account starts as a plain user.
type signupRequest struct {
	Name            string `json:"name" example:"Jonas Schmedtmann"`
	Email           string `json:"email" example:"jonas@example.com"`
	Password        string `json:"password" example:"pass1234"`
	PasswordConfirm string `json:"passwordConfirm" example:"pass1234"`
}

type loginRequest struct {
	Email    string `json:"email" example:"jonas@example.com"`
	Password string `json:"password" example:"pass1234"`
}

type tokenResponse struct {
	Status string           `json:"status" example:"success"`
	Token  string           `json:"token"`
	User   *domain.Identity `json:"user,omitempty"`
}

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")

// Signup creates a new user account and logs it in.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Failure      500   {object}  response.ErrorBody
// @Router       /api/v1/users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	metrics.SignupsTotal.Inc()

	return c.JSON(http.StatusCreated, tokenResponse{
		Status: response.StatusSuccess,
		Token:  res.Token,
		User:   res.Identity,
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Router       /api/v1/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		return errInvalidPayload
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{Status: response.StatusSuccess, Token: res.Token})
}

func loginResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "bad_credentials"
	default:
		return "error"
	}
}
