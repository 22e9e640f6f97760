package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sehatsathi/inventory-api/internal/api/handler"
	"github.com/sehatsathi/inventory-api/internal/api/middleware"
	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth      ports.AuthService
	Tokens    ports.TokenVerifier
	Approvals ports.ApprovalService
	Stock     ports.StockService
	Dashboard ports.DashboardService

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.Pinger
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry    *prometheus.Registry
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	approvalHandler := handler.NewApprovalHandler(d.Approvals)
	stockHandler := handler.NewStockHandler(d.Stock)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)
	auth := middleware.Auth(d.Tokens)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "SehatSathi API is running"})
	})

	// --- Public auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/login", authHandler.LoginPermissive)
	e.POST("/pharmacy/signup", authHandler.Signup)

	// --- Protected routes ---
	api := e.Group("/api", auth)
	api.GET("/users/pending", approvalHandler.Pending, middleware.Allow(domain.ActionListPendingApprovals))
	api.POST("/users/:id/approve", approvalHandler.Approve, middleware.Allow(domain.ActionApprovePharmacy))
	api.GET("/pharmacy/stocks", stockHandler.List, middleware.Allow(domain.ActionViewOwnStock))
	api.POST("/pharmacy/stocks", stockHandler.Add, middleware.Allow(domain.ActionAddStock))
	api.GET("/admin/all-stocks", stockHandler.ListAll, middleware.Allow(domain.ActionViewAllStock))
	api.GET("/government/dashboard", dashboardHandler.Dashboard, middleware.Allow(domain.ActionViewDashboard))
	api.GET("/government/analytics", dashboardHandler.Analytics, middleware.Allow(domain.ActionViewAnalyticsSnapshot))

	// --- Health checks, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)             // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
