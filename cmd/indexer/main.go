package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/adapters/catalog"
	"github.com/pathwaysai/patient-copilot/internal/adapters/search"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/typesense"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
	"github.com/pathwaysai/patient-copilot/pkg/config"
)

// Reindexes the provider catalog into Typesense, once or on an interval.
func main() {
	var intervalFlag string
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	godotenv.Load()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("Invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("Interval must be greater than zero")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("patient-copilot-indexer", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg); err != nil {
			log.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			break
		}

		log.Info().Dur("next_run", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config) error {
	providerCatalog := catalog.NewFileAdapter(&cfg.Catalog)
	providerCatalog.Invalidate()

	providerList, err := providerCatalog.Load(ctx)
	if err != nil {
		return err
	}

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(typesenseClient)
	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}
	if err := adapter.IndexProviders(ctx, providerList); err != nil {
		return err
	}

	log.Info().Int("providers", len(providerList)).Msg("Provider index refreshed")
	return nil
}
