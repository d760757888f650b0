// Package api assembles the HTTP surface: the pre-routing security pipeline,
// the route table and the error envelope.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/anik/storefront-api/docs"
	"github.com/anik/storefront-api/internal/api/handler"
	"github.com/anik/storefront-api/internal/api/middleware"
	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

// httpMetrics is created once per process: echoprometheus registers its
// collectors with the default registry on construction.
var httpMetrics = echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
	Namespace: "storefront",
	Subsystem: "http",
	Skipper: func(c echo.Context) bool {
		return c.Path() == "/metrics"
	},
})

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Codec    ports.TokenCodec
	Key      domain.SigningKey
	Policy   *middleware.AccessPolicy // nil selects DefaultAccessPolicy
	Health   map[string]handler.HealthCheck
	Logger   zerolog.Logger
}

// NewRouter builds the Echo instance. Every request passes through
// Recover → RequestID → RequestLogger → Authenticate → Authorize before
// routing, so unknown protected paths are rejected the same way as known ones.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	policy := d.Policy
	if policy == nil {
		policy = middleware.DefaultAccessPolicy()
	}

	// --- Pre-routing pipeline ---
	e.Pre(echomiddleware.Recover())
	e.Pre(echomiddleware.RequestID())
	e.Pre(middleware.RequestLogger(d.Logger))
	e.Pre(middleware.Authenticate(d.Codec, d.Key, d.Logger))
	e.Pre(middleware.Authorize(policy))

	e.Use(httpMetrics)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler(d.Health, d.Logger)
	e.GET("/api/health", healthHandler.Liveness)
	e.GET("/api/health/ready", healthHandler.Readiness)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Catalog ---
	productHandler := handler.NewProductHandler(d.Products)
	products := e.Group("/api/products")
	products.GET("", productHandler.List)
	products.GET("/search", productHandler.Search)
	products.GET("/best-sellers", productHandler.BestSellers)
	products.GET("/category/:slug", productHandler.ByCategory)
	products.GET("/:id", productHandler.Get)
	e.GET("/api/categories", productHandler.Categories)

	// --- Authenticated ---
	userHandler := handler.NewUserHandler()
	e.GET("/api/users/me", userHandler.Me)
	e.GET("/api/test/protected", userHandler.Protected)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
