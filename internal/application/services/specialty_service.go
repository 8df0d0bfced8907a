package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
)

// fallbackSpecialties is the preference order used when the generation path
// produces nothing usable. Only entries present in the catalog taxonomy are
// returned.
var fallbackSpecialties = []string{
	"Orthopedics",
	"Sports Medicine",
	"Physical Therapy",
	"Primary Care",
	"Internal Medicine",
}

const maxRecommendations = 3

// SpecialtyService recommends catalog specialties for an injury description.
type SpecialtyService struct {
	generator providers.TextGenerator
	catalog   repositories.ProviderCatalog
	metrics   *observability.Metrics
}

// NewSpecialtyService creates a specialty recommendation service. The
// generator may be nil, in which case recommendations come from the fallback
// preference list.
func NewSpecialtyService(generator providers.TextGenerator, catalog repositories.ProviderCatalog, metrics *observability.Metrics) *SpecialtyService {
	return &SpecialtyService{generator: generator, catalog: catalog, metrics: metrics}
}

// Recommend returns 1-3 specialties for the injury description, each
// guaranteed to exist in the catalog taxonomy. It never returns an error for
// generation failures; only a missing catalog is fatal.
func (s *SpecialtyService) Recommend(ctx context.Context, injuryDescription string) (entities.Recommendation, error) {
	ctx, span := observability.StartSpan(ctx, "specialty.recommend")
	defer span.End()

	available, err := s.catalog.Specialties(ctx)
	if err != nil {
		return entities.Recommendation{}, err
	}

	availableSet := map[string]bool{}
	for _, sp := range available {
		availableSet[sp] = true
	}

	if s.generator != nil {
		specialties, err := s.recommendWithGenerator(ctx, injuryDescription, available, availableSet)
		if err == nil && len(specialties) > 0 {
			return entities.Recommendation{Specialties: specialties, Source: entities.SourceLLM}, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("specialty recommendation failed, using fallback list")
		} else {
			log.Warn().Msg("no recommended specialty found in taxonomy, using fallback list")
		}
	}

	observability.RecordFallback(ctx, s.metrics, "specialty")
	return entities.Recommendation{
		Specialties: s.fallback(availableSet),
		Source:      entities.SourceFallback,
	}, nil
}

// FilterToTaxonomy keeps candidates present in the catalog taxonomy,
// deduplicated, capped at the recommendation limit.
func (s *SpecialtyService) FilterToTaxonomy(ctx context.Context, candidates []string) ([]string, error) {
	available, err := s.catalog.Specialties(ctx)
	if err != nil {
		return nil, err
	}

	availableSet := map[string]bool{}
	for _, sp := range available {
		availableSet[sp] = true
	}

	return filterSpecialties(candidates, availableSet), nil
}

func (s *SpecialtyService) recommendWithGenerator(ctx context.Context, injuryDescription string, available []string, availableSet map[string]bool) ([]string, error) {
	sorted := append([]string{}, available...)
	sort.Strings(sorted)

	prompt := fmt.Sprintf(`You are a medical specialist who recommends the most appropriate medical specialties for treating specific injuries or conditions.

Available specialties in our system: %s

Based on this injury description: '%s', what are the 2-3 most appropriate medical specialties from the available list above? Return only the specialty names separated by commas.

Specialties:`, strings.Join(sorted, ", "), injuryDescription)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	candidates := []string{}
	for _, part := range strings.Split(response, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			candidates = append(candidates, trimmed)
		}
	}

	return filterSpecialties(candidates, availableSet), nil
}

func (s *SpecialtyService) fallback(availableSet map[string]bool) []string {
	return filterSpecialties(fallbackSpecialties, availableSet)
}

func filterSpecialties(candidates []string, availableSet map[string]bool) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, candidate := range candidates {
		if availableSet[candidate] && !seen[candidate] {
			seen[candidate] = true
			result = append(result, candidate)
		}
		if len(result) == maxRecommendations {
			break
		}
	}
	return result
}
