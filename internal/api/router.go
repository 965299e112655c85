package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/catregistry/cat-api/internal/api/handler"
	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

// Dependencies groups everything the router needs to build the handlers.
type Dependencies struct {
	Users       ports.UserService
	Cats        ports.CatService
	Tokens      ports.TokenVerifier
	Revocations ports.RevocationStore
	Checks      map[string]handler.DependencyCheck
	Logger      zerolog.Logger

	// Registry receives the HTTP request metrics and backs /metrics.
	// Defaults to the Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catapi",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(deps.Users)
	userHandler := handler.NewUserHandler(deps.Users)
	catHandler := handler.NewCatHandler(deps.Cats)
	requireAuth := middleware.Auth(deps.Tokens, deps.Revocations, deps.Logger)

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	users := e.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/token", userHandler.CheckToken, requireAuth)
	users.GET("/:id", userHandler.Get)
	users.PUT("", userHandler.UpdateCurrent, requireAuth)
	users.DELETE("", userHandler.DeleteCurrent, requireAuth)

	// --- Cats ---
	cats := e.Group("/cats")
	cats.GET("", catHandler.List)
	cats.GET("/area", catHandler.ListInArea)
	cats.GET("/mycats", catHandler.ListMine, requireAuth)
	cats.GET("/:id", catHandler.Get)
	cats.POST("", catHandler.Create, requireAuth)
	cats.PUT("/:id", catHandler.Update, requireAuth)
	cats.DELETE("/:id", catHandler.Delete, requireAuth)

	admin := cats.Group("/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.PUT("/:id", catHandler.UpdateAsAdmin)
	admin.DELETE("/:id", catHandler.DeleteAsAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/swagger", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	return e
}
