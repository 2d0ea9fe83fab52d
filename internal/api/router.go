// Package api provides the HTTP API for DropRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/api/handler"
	"github.com/droproute/droproute/internal/api/middleware"
	"github.com/droproute/droproute/internal/auth"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/planner"
	"github.com/droproute/droproute/internal/provider/resilience"
	"github.com/droproute/droproute/internal/settings"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	AuthService     *auth.Service
	AddressService  *address.Service
	SettingsService *settings.Service
	PlannerService  *planner.Service
	GeocodeService  *geocode.Service
	Registry        *resilience.Registry
	DB              *pgxpool.Pool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "droproute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Registry:  cfg.Registry,
		DB:        cfg.DB,
	})
	addressHandler := handler.NewAddressHandler(cfg.AddressService)
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService)
	routeHandler := handler.NewRouteHandler(handler.RouteHandlerConfig{
		Addresses: cfg.AddressService,
		Settings:  cfg.SettingsService,
		Planner:   cfg.PlannerService,
		Geocoder:  cfg.GeocodeService,
	})
	metadataHandler := handler.NewMetadataHandler()

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Address book - reads public, writes authenticated
		r.Route("/addresses", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", addressHandler.ListAddresses)
			r.With(authMiddleware).Post("/", addressHandler.CreateAddress)
			r.With(authMiddleware).Post("/import", addressHandler.ImportAddresses)
			r.Route("/{addressId}", func(r chi.Router) {
				r.Get("/", addressHandler.GetAddress)
				r.With(authMiddleware).Put("/", addressHandler.UpdateAddress)
				r.With(authMiddleware).Delete("/", addressHandler.DeleteAddress)
			})
		})

		// Route settings - reads public, writes authenticated
		r.Route("/settings", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", settingsHandler.GetSettings)
			r.With(authMiddleware).Put("/", settingsHandler.UpdateSettings)
		})

		// Route planning - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:plan", routeHandler.PlanRoute)
	})

	return r
}
