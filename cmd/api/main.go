package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrismart/platform/backend/internal/adapters/cache"
	"github.com/agrismart/platform/backend/internal/adapters/database"
	"github.com/agrismart/platform/backend/internal/adapters/providers/geocoding"
	"github.com/agrismart/platform/backend/internal/api/handlers"
	"github.com/agrismart/platform/backend/internal/api/routes"
	"github.com/agrismart/platform/backend/internal/application/services"
	"github.com/agrismart/platform/backend/internal/domain/providers"
	"github.com/agrismart/platform/backend/internal/infrastructure/clients/inference"
	"github.com/agrismart/platform/backend/internal/infrastructure/clients/postgres"
	"github.com/agrismart/platform/backend/internal/infrastructure/clients/redis"
	"github.com/agrismart/platform/backend/internal/infrastructure/observability"
	"github.com/agrismart/platform/backend/internal/recommender"
	"github.com/agrismart/platform/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client. The application works without caching, so a
	// Redis failure only downgrades the geocoding provider.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Load the IFS reference dataset
	records, err := recommender.LoadCSV(cfg.Dataset.CSVPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Dataset.CSVPath).Msg("failed to load IFS dataset")
	}

	// Initialize geocoding provider
	var geocoder providers.GeocodingProvider
	switch cfg.Geocoding.Provider {
	case "mock":
		geocoder = geocoding.NewMockGeocodingProvider()
		logger.Info().Msg("using mock geocoding provider")
	default:
		geocoder = geocoding.NewNominatimProvider(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, cacheProvider, metrics)
		logger.Info().Str("base_url", cfg.Geocoding.BaseURL).Msg("using Nominatim geocoding provider")
	}

	// Initialize inference client and adapters
	classifier := inference.NewHTTPClient(&cfg.Classifier)
	analysisRepo := database.NewAnalysisAdapter(pgClient)

	// Initialize services
	recommendationService := services.NewRecommendationService(records, geocoder)
	analysisService := services.NewAnalysisService(classifier, recommendationService, analysisRepo, metrics)
	logger.Info().
		Int("districts", recommendationService.DistrictCount()).
		Int("records", len(records)).
		Msg("recommendation index built")

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)

	readinessChecks := map[string]routes.ReadinessCheck{
		"postgresql": pgClient.Ping,
	}
	if redisClient != nil {
		readinessChecks["redis"] = redisClient.Ping
	}

	router := routes.NewRouter(analysisHandler, recommendationHandler, readinessChecks, metrics)

	// Write timeout leaves headroom for the slow inference branch.
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Classifier.TimeoutSeconds+30) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
