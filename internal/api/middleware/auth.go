package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// IdentityKey is the echo context key under which Protect stores the
// authenticated *domain.Identity.
const IdentityKey = "identity"

// Protect resolves the bearer token through the Gate and attaches the
// identity to the echo context and to the request context. Rejections are
// returned as errors for the central error handler to render.
func Protect(gate ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			identity, err := gate.Authenticate(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				var ue *domain.UnauthenticatedError
				if errors.As(err, &ue) {
					metrics.GateDecisionsTotal.WithLabelValues(ue.Failure.String()).Inc()
				} else {
					metrics.GateDecisionsTotal.WithLabelValues("error").Inc()
				}
				return err
			}
			metrics.GateDecisionsTotal.WithLabelValues("allowed").Inc()

			c.Set(IdentityKey, identity)
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), identity)))
			return next(c)
		}
	}
}
