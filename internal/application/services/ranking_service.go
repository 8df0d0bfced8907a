package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
)

const (
	specialtyWeight = 0.5
	insuranceWeight = 0.3
	distanceWeight  = 0.2

	// distanceSentinel stands in when either zip code is missing.
	distanceSentinel = 50.0

	// zipDefault stands in for a zip code that is not all digits.
	zipDefault = 10000
)

// RankingService scores catalog providers against a recommendation context.
// The distance formula is a zip-delta proxy, not geodistance; downstream
// consumers depend on its exact values, so it must not be replaced with a
// real metric.
type RankingService struct {
	topK int
}

// NewRankingService creates a ranking service returning at most topK matches.
func NewRankingService(topK int) *RankingService {
	if topK <= 0 {
		topK = 3
	}
	return &RankingService{topK: topK}
}

// Rank scores every provider and returns the topK matches ordered by score
// descending. Providers missing a name or specialty are skipped with a
// warning. Ties keep the catalog order.
func (s *RankingService) Rank(ctx context.Context, providerList []*entities.Provider, specialties []string, targetZip, targetInsurance string) []entities.RankedMatch {
	_, span := observability.StartSpan(ctx, "ranking.rank")
	defer span.End()

	recommended := map[string]bool{}
	for _, sp := range specialties {
		recommended[sp] = true
	}

	ranked := make([]entities.RankedMatch, 0, len(providerList))
	for _, provider := range providerList {
		if provider == nil || provider.Name == "" || provider.Specialty == "" {
			log.Warn().Msg("skipping provider with missing required fields")
			continue
		}

		specialtyMatch := 0.3
		if recommended[provider.Specialty] {
			specialtyMatch = 1.0
		}

		insuranceMatch := 0.5
		if targetInsurance != "" && provider.AcceptsInsurance(targetInsurance) {
			insuranceMatch = 1.0
		}

		distance := calculateDistance(targetZip, provider.ZipCode)

		score := specialtyMatch*specialtyWeight +
			insuranceMatch*insuranceWeight +
			(1.0/(1.0+distance))*distanceWeight

		reasons := []string{}
		if specialtyMatch > 0.8 {
			reasons = append(reasons, "Specialty match")
		}
		if insuranceMatch > 0.8 {
			reasons = append(reasons, "Insurance match")
		}
		if distance < 10 {
			reasons = append(reasons, "Nearby provider")
		}
		reason := strings.Join(reasons, ", ")
		if reason == "" {
			reason = "General match"
		}

		ranked = append(ranked, entities.RankedMatch{
			Name:          provider.Name,
			Specialty:     provider.Specialty,
			Distance:      distance,
			Availability:  provider.Availability,
			RankingReason: reason,
			Score:         score,
		})
	}

	// Stable sort: ties keep catalog order, which is the only tie-break.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > s.topK {
		return ranked[:s.topK]
	}
	return ranked
}

// TotalRanked reports how many providers would survive the required-field
// filter without applying the topK cutoff.
func (s *RankingService) TotalRanked(providerList []*entities.Provider) int {
	total := 0
	for _, provider := range providerList {
		if provider != nil && provider.Name != "" && provider.Specialty != "" {
			total++
		}
	}
	return total
}

// calculateDistance computes the zip-delta proxy distance. Either side empty
// yields the sentinel.
func calculateDistance(zip1, zip2 string) float64 {
	if zip1 == "" || zip2 == "" {
		return distanceSentinel
	}
	return float64(abs(zip5(zip1)-zip5(zip2))) / 1000.0
}

// zip5 parses the first five characters as an integer when the string is all
// digits, else substitutes a fixed default.
func zip5(s string) int {
	for _, r := range s {
		if r < '0' || r > '9' {
			return zipDefault
		}
	}
	if len(s) > 5 {
		s = s[:5]
	}
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
