package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/api/response"
	"github.com/natours/booking-api/internal/core/ports"
)

// UserHandler serves the routes an authenticated user calls about themself.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// Me returns the authenticated identity.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.DataBody
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return response.Data(c, http.StatusOK, map[string]any{"user": identity})
}

// UpdateMyPassword changes the caller's password. Every token issued before
// the change stops working; the response carries a fresh one.
//
// @Summary      Update my password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Router       /api/v1/users/updateMyPassword [patch]
func (h *UserHandler) UpdateMyPassword(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	res, err := h.authService.UpdatePassword(c.Request().Context(), ports.UpdatePasswordInput{
		IdentityID:      identity.ID,
		CurrentPassword: req.PasswordCurrent,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	metrics.PasswordChangesTotal.Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		Status: response.StatusSuccess,
		Token:  res.Token,
		User:   res.Identity,
	})
}
