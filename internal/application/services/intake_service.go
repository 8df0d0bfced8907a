package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
)

// catalogCachePrefix scopes cached catalog-derived HTTP responses so they can
// be purged together on invalidation.
const catalogCachePrefix = "catalog:"

// IntakeService orchestrates the full intake pipeline: transcription,
// structured extraction, specialty recommendation and provider ranking.
type IntakeService struct {
	transcription *TranscriptionService
	extraction    *ExtractionService
	specialties   *SpecialtyService
	ranking       *RankingService
	catalog       repositories.ProviderCatalog
	search        repositories.ProviderSearchRepository
	cache         providers.CacheProvider
}

// NewIntakeService creates the pipeline orchestrator. Search and cache are
// optional and may be nil.
func NewIntakeService(
	transcription *TranscriptionService,
	extraction *ExtractionService,
	specialties *SpecialtyService,
	ranking *RankingService,
	catalog repositories.ProviderCatalog,
	search repositories.ProviderSearchRepository,
	cache providers.CacheProvider,
) *IntakeService {
	return &IntakeService{
		transcription: transcription,
		extraction:    extraction,
		specialties:   specialties,
		ranking:       ranking,
		catalog:       catalog,
		search:        search,
		cache:         cache,
	}
}

// ProcessAudio runs the full pipeline on an uploaded audio clip. Only a total
// transcription outage or a missing catalog fail the request.
func (s *IntakeService) ProcessAudio(ctx context.Context, clip []byte) (*entities.MatchResult, error) {
	ctx, span := observability.StartSpan(ctx, "intake.process_audio")
	defer span.End()

	transcript, err := s.transcription.Transcribe(ctx, clip)
	if err != nil {
		return nil, err
	}

	result, err := s.ProcessText(ctx, transcript.Text)
	if err != nil {
		return nil, err
	}
	result.Transcript = transcript

	return result, nil
}

// ProcessText runs extraction, recommendation and ranking on raw intake text.
// Only a missing catalog fails the request.
func (s *IntakeService) ProcessText(ctx context.Context, text string) (*entities.MatchResult, error) {
	ctx, span := observability.StartSpan(ctx, "intake.process_text")
	defer span.End()

	extraction := s.extraction.Extract(ctx, text)

	recommendation, err := s.recommend(ctx, extraction)
	if err != nil {
		return nil, err
	}

	return s.match(ctx, extraction, recommendation)
}

// MatchProviders ranks providers for an already-structured intake record.
func (s *IntakeService) MatchProviders(ctx context.Context, injuryDescription, zipCode, insurance string) (*entities.MatchResult, error) {
	ctx, span := observability.StartSpan(ctx, "intake.match_providers")
	defer span.End()

	extraction := &entities.Extraction{
		InjuryDescription: injuryDescription,
		ZipCode:           zipCode,
		Insurance:         insurance,
		Source:            entities.SourceLLM,
	}

	recommendation, err := s.specialties.Recommend(ctx, injuryDescription)
	if err != nil {
		return nil, err
	}

	return s.match(ctx, extraction, recommendation)
}

// recommend prefers the extraction's own in-taxonomy candidates and consults
// the recommendation engine only when none survive the taxonomy filter.
func (s *IntakeService) recommend(ctx context.Context, extraction *entities.Extraction) (entities.Recommendation, error) {
	if len(extraction.RecommendedSpecialties) > 0 {
		filtered, err := s.specialties.FilterToTaxonomy(ctx, extraction.RecommendedSpecialties)
		if err != nil {
			return entities.Recommendation{}, err
		}
		if len(filtered) > 0 {
			return entities.Recommendation{Specialties: filtered, Source: extraction.Source}, nil
		}
	}

	return s.specialties.Recommend(ctx, extraction.InjuryDescription)
}

func (s *IntakeService) match(ctx context.Context, extraction *entities.Extraction, recommendation entities.Recommendation) (*entities.MatchResult, error) {
	providerList, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches := s.ranking.Rank(ctx, providerList, recommendation.Specialties, extraction.ZipCode, extraction.Insurance)

	return &entities.MatchResult{
		Extraction:     extraction,
		Recommendation: recommendation,
		Matches:        matches,
		TotalFound:     s.ranking.TotalRanked(providerList),
	}, nil
}

// AvailableSpecialties returns the catalog's specialty taxonomy.
func (s *IntakeService) AvailableSpecialties(ctx context.Context) ([]string, error) {
	return s.catalog.Specialties(ctx)
}

// AvailableInsurances returns the set of insurers accepted anywhere in the
// catalog.
func (s *IntakeService) AvailableInsurances(ctx context.Context) ([]string, error) {
	return s.catalog.Insurances(ctx)
}

// SearchProviders performs a free-text search against the provider index.
func (s *IntakeService) SearchProviders(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	if s.search == nil {
		return nil, nil
	}
	return s.search.Search(ctx, query, limit)
}

// InvalidateCatalog drops the catalog snapshot, purges cached catalog
// responses and reindexes the search collection from the fresh snapshot.
// Cache and index failures are logged, not fatal: the next Load re-reads the
// source regardless.
func (s *IntakeService) InvalidateCatalog(ctx context.Context) error {
	s.catalog.Invalidate()

	if s.cache != nil {
		if err := s.cache.DeleteByPrefix(ctx, catalogCachePrefix); err != nil {
			log.Warn().Err(err).Msg("failed to purge cached catalog responses")
		}
	}

	providerList, err := s.catalog.Load(ctx)
	if err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.IndexProviders(ctx, providerList); err != nil {
			log.Warn().Err(err).Msg("failed to reindex providers after invalidation")
		}
	}

	return nil
}
