package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/core/domain"
)

// currentIdentity returns the identity the Protect middleware attached to the
// request. Handlers behind Protect can rely on it; anywhere else it is a
// programming error surfaced as a 401 rather than a panic.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	identity := domain.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return nil, domain.NewUnauthenticated(domain.FailureMissingToken)
	}
	return identity, nil
}
