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
	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/adapters/cache"
	"github.com/pathwaysai/patient-copilot/internal/adapters/catalog"
	"github.com/pathwaysai/patient-copilot/internal/adapters/database"
	"github.com/pathwaysai/patient-copilot/internal/adapters/search"
	googletranscriber "github.com/pathwaysai/patient-copilot/internal/adapters/transcription/google"
	"github.com/pathwaysai/patient-copilot/internal/adapters/transcription/whisper"
	"github.com/pathwaysai/patient-copilot/internal/api/handlers"
	"github.com/pathwaysai/patient-copilot/internal/api/middleware"
	"github.com/pathwaysai/patient-copilot/internal/api/routes"
	"github.com/pathwaysai/patient-copilot/internal/application/services"
	domainproviders "github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/ollama"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/openai"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/postgres"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/redis"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/typesense"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
	"github.com/pathwaysai/patient-copilot/pkg/config"
)

func main() {
	// Load .env if present, real environment wins
	if err := godotenv.Load(); err == nil {
		log.Info().Msg(".env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

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
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Provider catalog is the one mandatory data source
	providerCatalog := catalog.NewFileAdapter(&cfg.Catalog)
	if _, err := providerCatalog.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Provider catalog not loadable at startup, requests will fail until it appears")
	}

	// PostgreSQL backs the user and reminder records; the intake pipeline
	// works without it
	var pgClient *postgres.Client
	pgClient, err = postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize PostgreSQL client, user endpoints disabled")
		pgClient = nil
	} else {
		defer pgClient.Close()
		log.Info().Msg("PostgreSQL client initialized successfully")
	}

	var cacheProvider domainproviders.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, running without response cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized successfully")
	}

	var searchRepo repositories.ProviderSearchRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client, provider search disabled")
	} else {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		} else {
			if providerList, err := providerCatalog.Load(ctx); err == nil {
				if err := adapter.IndexProviders(ctx, providerList); err != nil {
					log.Warn().Err(err).Msg("Failed to index providers at startup")
				}
			}
			searchRepo = adapter
		}
	}

	// Text-generation capability: hosted OpenAI or a local Ollama server.
	// Absence is not fatal, the pipeline degrades to its keyword fallbacks.
	var generator domainproviders.TextGenerator
	switch cfg.LLM.Provider {
	case "ollama":
		generator = ollama.NewClient(&cfg.LLM)
		log.Info().Str("model", cfg.LLM.OllamaModel).Msg("Ollama text generation enabled")
	default:
		if cfg.LLM.OpenAIAPIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY is not set, extraction runs on keyword fallbacks only")
		} else {
			openaiClient, err := openai.NewClient(&cfg.LLM)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to initialize OpenAI client")
			} else {
				generator = openaiClient
				log.Info().Str("model", cfg.LLM.OpenAIModel).Msg("OpenAI text generation enabled")
			}
		}
	}

	// Transcription backends, preferred first
	backends := []domainproviders.Transcriber{}
	if cfg.Transcription.UseCloud {
		cloudTranscriber, err := googletranscriber.NewAdapter(ctx, &cfg.Transcription)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize cloud transcription")
		} else {
			defer cloudTranscriber.Close()
			backends = append(backends, cloudTranscriber)
		}
	}
	backends = append(backends, whisper.NewAdapter(&cfg.Transcription))

	// Services
	transcriptionService := services.NewTranscriptionService(metrics, backends...)
	extractionService := services.NewExtractionService(generator, metrics)
	specialtyService := services.NewSpecialtyService(generator, providerCatalog, metrics)
	rankingService := services.NewRankingService(cfg.Matching.TopK)

	intakeService := services.NewIntakeService(
		transcriptionService,
		extractionService,
		specialtyService,
		rankingService,
		providerCatalog,
		searchRepo,
		cacheProvider,
	)

	// Handlers
	intakeHandler := handlers.NewIntakeHandler(intakeService, transcriptionService)
	catalogHandler := handlers.NewCatalogHandler(intakeService)

	var userHandler *handlers.UserHandler
	if pgClient != nil {
		userAdapter := database.NewUserAdapter(pgClient)
		reminderAdapter := database.NewReminderAdapter(pgClient)
		userHandler = handlers.NewUserHandler(
			services.NewUserService(userAdapter),
			services.NewReminderService(reminderAdapter, userAdapter),
		)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized successfully")
	}

	router := routes.NewRouter(
		intakeHandler,
		catalogHandler,
		userHandler,
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
