package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/homiin/portal/docs"
	"github.com/homiin/portal/internal/api/handler"
	"github.com/homiin/portal/internal/api/middleware"
	"github.com/homiin/portal/internal/core/ports"
	"github.com/homiin/portal/internal/core/service"
)

// Deps is everything the HTTP surface needs from the core.
type Deps struct {
	Auth       ports.AuthService
	Navigation ports.NavigationService
	// External verifies provider ID tokens. Nil disables /auth/external.
	External   ports.ExternalIdentityVerifier
	Routes     *service.RouteTable
	Identities handler.IdentityCounter
	Checks     map[string]handler.Pinger
	Device     middleware.DeviceOptions
	Log        zerolog.Logger
	// Registerer receives the HTTP request metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "homiin_portal",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.External)
	navHandler := handler.NewNavigationHandler(deps.Navigation, deps.Auth, deps.Routes, deps.Identities)

	// --- Device-scoped routes ---
	device := e.Group("", middleware.Device(deps.Device))

	device.POST("/auth/login", authHandler.Login)
	device.POST("/auth/register", authHandler.Register)
	device.POST("/auth/external", authHandler.External)
	device.POST("/auth/logout", authHandler.Logout)
	device.GET("/auth/session", authHandler.Session)

	device.GET("/navigate", navHandler.Navigate)
	device.GET("/views", navHandler.Views)
	device.GET("/admin/overview", navHandler.AdminOverview, middleware.Guard(deps.Navigation, "/admin"))

	// --- Health probes, metrics and docs (no device required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
