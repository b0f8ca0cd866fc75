package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/core/domain"
)

// RestrictTo enforces role-based access control. It must run after Protect;
// a request that reaches it without an identity is unauthenticated.
func RestrictTo(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := domain.IdentityFromContext(c.Request().Context())
			if identity == nil {
				return domain.NewUnauthenticated(domain.FailureMissingToken)
			}
			if !domain.Authorize(identity, allowed) {
				metrics.AuthorizationDenialsTotal.WithLabelValues(identity.Role.String()).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
