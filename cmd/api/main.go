// Package main provides the entrypoint for the DropRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/api"
	"github.com/droproute/droproute/internal/api/middleware"
	"github.com/droproute/droproute/internal/auth"
	"github.com/droproute/droproute/internal/database"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/geocode/nominatim"
	"github.com/droproute/droproute/internal/planner"
	"github.com/droproute/droproute/internal/provider/resilience"
	"github.com/droproute/droproute/internal/routing/osrm"
	"github.com/droproute/droproute/internal/settings"
	"github.com/droproute/droproute/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "droproute-api"

	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting DropRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database (STORAGE_BACKEND=memory runs without one)
	var pool *pgxpool.Pool
	var addressRepo address.Repository
	var settingsRepo settings.Repository

	if os.Getenv("STORAGE_BACKEND") == "memory" {
		log.Warn().Msg("using in-memory storage - data is lost on restart")
		addressRepo = address.NewInMemoryRepository()
		settingsRepo = settings.NewInMemoryRepository()
	} else {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		addressRepo = address.NewPostgresRepository(pool)
		settingsRepo = settings.NewPostgresRepository(pool)
	}

	// Initialize auth service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.ServiceConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.droproute.app",
		Audience:   "droproute-api",
	})
	log.Info().Msg("auth service initialized")

	// Initialize provider registry for health tracking
	registry := resilience.NewRegistry()

	// Initialize geocoding: Nominatim behind a cache. With REDIS_ADDR set
	// the cache is shared with the warm worker, otherwise it is in-process.
	var geocodeCache geocode.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		geocodeCache = geocode.NewRedisCache(geocode.RedisCacheConfig{
			Client: redisClient,
			Logger: log,
		})
		log.Info().Str("addr", redisAddr).Msg("using Redis geocode cache")
	}

	nominatimClient := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:  os.Getenv("NOMINATIM_BASE_URL"),
		Registry: registry,
		Logger:   log,
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatimClient,
		Cache:    geocodeCache,
		Logger:   log,
	})
	log.Info().Msg("geocode service initialized")

	// Initialize routing
	osrmClient := osrm.NewClient(osrm.ClientConfig{
		BaseURL:  os.Getenv("OSRM_BASE_URL"),
		Registry: registry,
		Logger:   log,
	})

	// Initialize address and settings services
	addressService := address.NewService(addressRepo)
	settingsService := settings.NewService(settings.ServiceConfig{
		Repository: settingsRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("address and settings services initialized")

	// Initialize route planner
	plannerService := planner.NewService(planner.ServiceConfig{
		Geocoder: geocodeService,
		Router:   osrmClient,
		Logger:   log,
	})
	log.Info().Msg("planner service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		AuthService:     authService,
		AddressService:  addressService,
		SettingsService: settingsService,
		PlannerService:  plannerService,
		GeocodeService:  geocodeService,
		Registry:        registry,
		DB:              pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
