package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/inventory-system/docs"
	"github.com/99minutos/inventory-system/internal/api/handler"
	"github.com/99minutos/inventory-system/internal/api/middleware"
	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
)

// Dependencies holds everything the router needs to serve requests.
type Dependencies struct {
	AuthService    ports.AuthService
	Identity       ports.IdentityResolver
	ProductService ports.ProductService
	Logger         zerolog.Logger

	// HealthChecks are run by the readiness check, keyed by dependency name.
	HealthChecks map[string]handler.DependencyCheck

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
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
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:          "inventory",
		Subsystem:          "http",
		Registerer:         deps.Registerer,
		StatusCodeResolver: statusCode,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authenticate := middleware.Authenticate(deps.Identity)

	// --- User routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/current", authHandler.Current, authenticate)

	// --- Product routes ---
	productHandler := handler.NewProductHandler(deps.ProductService)
	products := e.Group("/api/products", authenticate)
	products.POST("", productHandler.Create, middleware.RBAC("create products", domain.RoleAdmin))
	products.GET("", productHandler.List, middleware.RBAC("view products", domain.RoleAdmin, domain.RoleManager))
	products.GET("/:id", productHandler.Get, middleware.RBAC("view product", domain.RoleAdmin, domain.RoleManager))
	products.PUT("/:id", productHandler.Update, middleware.RBAC("update product", domain.RoleAdmin, domain.RoleManager))
	products.DELETE("/:id", productHandler.Delete, middleware.RBAC("delete product", domain.RoleAdmin))

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through zerolog.
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
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
