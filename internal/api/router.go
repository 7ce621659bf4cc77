package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/udtn/catalog-api/docs"
	"github.com/udtn/catalog-api/internal/api/handler"
	"github.com/udtn/catalog-api/internal/api/middleware"
	"github.com/udtn/catalog-api/internal/core/access"
	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/core/ports"
)

// Operation ids used by the catalog policy.
const (
	OpProductsCreate = "products.create"
	OpProductsList   = "products.list"
	OpProductsGet    = "products.get"
	OpProductsUpdate = "products.update"
	OpProductsDelete = "products.delete"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	AuthService    ports.AuthService
	ProductService ports.ProductService
	TokenVerifier  ports.TokenVerifier
	// HealthChecks maps a dependency name to its readiness probe.
	HealthChecks map[string]handler.Check
	CORSOrigins  []string
	Logger       zerolog.Logger
	// Registry receives the HTTP request metrics. Nil selects the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// CatalogPolicy declares which roles may invoke each product operation.
// List and get carry no declaration: any authenticated caller may read.
func CatalogPolicy() *access.Policy {
	return access.NewPolicy(
		access.Operation(OpProductsCreate, domain.RoleAdmin),
		access.Operation(OpProductsUpdate, domain.RoleAdmin),
		access.Operation(OpProductsDelete, domain.RoleAdmin),
	)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Infrastructure routes (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Product routes ---
	policy := CatalogPolicy()
	productHandler := handler.NewProductHandler(deps.ProductService)
	products := e.Group("/products", middleware.Authenticate(deps.TokenVerifier))
	products.POST("", productHandler.Create, middleware.Guard(policy, OpProductsCreate))
	products.GET("", productHandler.List, middleware.Guard(policy, OpProductsList))
	products.GET("/:id", productHandler.Get, middleware.Guard(policy, OpProductsGet))
	products.PUT("/:id", productHandler.Update, middleware.Guard(policy, OpProductsUpdate))
	products.DELETE("/:id", productHandler.Delete, middleware.Guard(policy, OpProductsDelete))

	return e
}
