// Package main provides the entrypoint for the DropRoute background worker.
//
// The worker pre-resolves the address book through the geocode cache so the
// API does not pay provider round trips at plan time. Jobs arrive over
// Pub/Sub when PUBSUB_PROJECT_ID is set; otherwise the warm job runs on a
// fixed interval.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/database"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/geocode/nominatim"
	"github.com/droproute/droproute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// defaultWarmInterval is how often the warm job runs when no Pub/Sub
// subscription is configured.
const defaultWarmInterval = 6 * time.Hour

func main() {
	const serviceName = "droproute-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting DropRoute worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var addressRepo address.Repository
	if os.Getenv("STORAGE_BACKEND") == "memory" {
		log.Warn().Msg("using in-memory storage - the warm job will see an empty book")
		addressRepo = address.NewInMemoryRepository()
	} else {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		addressRepo = address.NewPostgresRepository(pool)
		log.Info().
			Str("host", dbConfig.Host).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}
	addressService := address.NewService(addressRepo)

	// Geocoding. Warming is only useful across processes when the cache is
	// shared, so Redis is strongly recommended here.
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
	} else {
		log.Warn().Msg("no REDIS_ADDR set - warmed entries are not visible to the API")
	}

	nominatimClient := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL: os.Getenv("NOMINATIM_BASE_URL"),
		Logger:  log,
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatimClient,
		Cache:    geocodeCache,
		Logger:   log,
	})

	warmJob := worker.NewWarmJob(worker.WarmJobConfig{
		Config:    worker.DefaultWarmConfig(),
		Logger:    log,
		Addresses: addressService,
		Geocoder:  geocodeService,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Job source: Pub/Sub subscription when configured, interval otherwise.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID != "" {
		subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
		if subscription == "" {
			subscription = "droproute-worker-jobs"
		}

		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			WarmJob:          warmJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub receive failed")
			}
		}()
	} else {
		interval := defaultWarmInterval
		if raw := os.Getenv("WARM_INTERVAL"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatal().Err(err).Str("value", raw).Msg("invalid WARM_INTERVAL")
			}
			interval = parsed
		}

		go func() {
			log.Info().Dur("interval", interval).Msg("running warm job on interval")

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			// Warm once at startup, then on each tick.
			if _, err := warmJob.Run(ctx); err != nil {
				log.Error().Err(err).Msg("warm job failed")
			}
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := warmJob.Run(ctx); err != nil {
						log.Error().Err(err).Msg("warm job failed")
					}
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
