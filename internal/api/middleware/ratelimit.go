package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// RateLimit counts requests per client IP. When the limiter itself fails the
// request is let through and the failure logged.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			switch {
			case err != nil:
				metrics.RateLimitTotal.WithLabelValues("error").Inc()
				log.Warn().Err(err).Msg("rate limiter unavailable")
			case !ok:
				metrics.RateLimitTotal.WithLabelValues("limited").Inc()
				return domain.ErrRateLimited
			default:
				metrics.RateLimitTotal.WithLabelValues("allowed").Inc()
			}
			return next(c)
		}
	}
}
