package api

import (
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/natours/booking-api/docs"
	"github.com/natours/booking-api/internal/api/handler"
	"github.com/natours/booking-api/internal/api/middleware"
	"github.com/natours/booking-api/internal/api/response"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth        ports.AuthService
	Gate        ports.Authenticator
	Tours       ports.TourService
	RateLimiter ports.RateLimiter
	Health      *handler.HealthDependenciesHandler
	Logger      zerolog.Logger
	// TrustedProxies are the peers whose X-Forwarded-For names the client.
	// Empty means the socket peer is the client.
	TrustedProxies []*net.IPNet
	// Registry receives the HTTP request metrics and backs /metrics.
	// Nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// ipExtractor decides what c.RealIP returns, and with it the rate limit key.
// Forwarding headers are only read when the peer is a listed proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(deps.TrustedProxies)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("10K"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "natours",
		Registerer: registerer,
	}))

	// --- Operational routes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness) // liveness  – is the process alive?
	if deps.Health != nil {
		e.GET("/health/ready", deps.Health.Readiness) // readiness – are dependencies up?
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	v1 := e.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(middleware.RateLimit(deps.RateLimiter, deps.Logger))
	}
	protect := middleware.Protect(deps.Gate)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Auth)
	users := v1.Group("/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.GET("/me", userHandler.Me, protect)
	users.PATCH("/updateMyPassword", userHandler.UpdateMyPassword, protect)

	tourHandler := handler.NewTourHandler(deps.Tours)
	tours := v1.Group("/tours", protect)
	tours.GET("", tourHandler.List)
	tours.GET("/monthly-plan/:year", tourHandler.MonthlyPlan,
		middleware.RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide, domain.RoleGuide))
	tours.DELETE("/:id", tourHandler.Delete,
		middleware.RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide))

	return e
}

// requestLogger writes one zerolog event per request. Headers are not
// logged, so bearer tokens never reach the access log.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
