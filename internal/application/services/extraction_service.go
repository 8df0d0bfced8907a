package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
)

const noSymptomsDescription = "No specific symptoms mentioned"

var zipCodePattern = regexp.MustCompile(`\b\d{5}\b`)

// insuranceKeywords maps lowercased text fragments to canonical insurer names.
// Order matters: the first fragment found in the text wins.
var insuranceKeywords = []struct {
	fragments []string
	name      string
}{
	{[]string{"blue cross", "bluecross"}, "Blue Cross"},
	{[]string{"aetna"}, "Aetna"},
	{[]string{"cigna"}, "Cigna"},
	{[]string{"unitedhealth", "united health"}, "UnitedHealth"},
	{[]string{"medicare"}, "Medicare"},
	{[]string{"humana"}, "Humana"},
	{[]string{"kaiser", "kaiser permanente"}, "Kaiser"},
}

// symptomSpecialties maps lowercased symptom fragments to specialties.
var symptomSpecialties = []struct {
	fragments []string
	specialty string
}{
	{[]string{"tooth", "teeth", "dental", "mouth", "gum"}, "Dentist"},
	{[]string{"chest pain", "heart", "cardiac", "palpitation"}, "Cardiology"},
	{[]string{"headache", "head injury", "brain", "seizure"}, "Neurology"},
	{[]string{"broken", "fracture", "bone", "joint", "knee", "shoulder"}, "Orthopedics"},
	{[]string{"rash", "skin", "itch", "burn"}, "Dermatology"},
	{[]string{"ear", "nose", "throat", "hearing", "swallowing"}, "ENT"},
	{[]string{"eye", "vision", "blind", "sight"}, "Ophthalmology"},
	{[]string{"anxiety", "depression", "mental", "mood"}, "Psychiatry"},
}

// defaultSpecialties is used when no symptom keyword matches.
var defaultSpecialties = []string{"General Surgery", "Primary Care"}

// ExtractionService pulls a structured intake record out of free-form text.
// The text-generation capability is tried first; a keyword pass produces the
// result when generation is unavailable or returns something unusable.
type ExtractionService struct {
	generator providers.TextGenerator
	metrics   *observability.Metrics
}

// NewExtractionService creates a new extraction service. The generator may be
// nil, in which case every extraction uses the keyword pass.
func NewExtractionService(generator providers.TextGenerator, metrics *observability.Metrics) *ExtractionService {
	return &ExtractionService{generator: generator, metrics: metrics}
}

// Extract produces a structured record for the given intake text. It never
// returns an error: any generation failure degrades to the keyword pass.
func (s *ExtractionService) Extract(ctx context.Context, text string) *entities.Extraction {
	ctx, span := observability.StartSpan(ctx, "extraction.extract")
	defer span.End()

	if s.generator != nil {
		extraction, err := s.extractWithGenerator(ctx, text)
		if err == nil {
			extraction.Source = entities.SourceLLM
			return extraction
		}
		log.Warn().Err(err).Msg("structured extraction failed, using keyword pass")
	}

	observability.RecordFallback(ctx, s.metrics, "extraction")
	extraction := s.extractWithKeywords(text)
	extraction.Source = entities.SourceFallback
	return extraction
}

func (s *ExtractionService) extractWithGenerator(ctx context.Context, text string) (*entities.Extraction, error) {
	prompt := fmt.Sprintf(`Extract structured information from this patient message.

Patient message: %q

Respond with a JSON object containing exactly these keys:
- "injury_description": a short description of the symptoms or injury
- "zip_code": the patient's 5-digit zip code, or "" if not mentioned
- "insurance": the patient's insurance provider, or "" if not mentioned
- "recommended_specialties": a list of up to 3 medical specialties suited to the symptoms

Respond with only the JSON object.`, text)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	payload, ok := firstJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw struct {
		InjuryDescription      string   `json:"injury_description"`
		ZipCode                string   `json:"zip_code"`
		Insurance              string   `json:"insurance"`
		RecommendedSpecialties []string `json:"recommended_specialties"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	extraction := &entities.Extraction{
		InjuryDescription:      strings.TrimSpace(raw.InjuryDescription),
		ZipCode:                strings.TrimSpace(raw.ZipCode),
		Insurance:              strings.TrimSpace(raw.Insurance),
		RecommendedSpecialties: raw.RecommendedSpecialties,
	}
	if extraction.InjuryDescription == "" {
		extraction.InjuryDescription = noSymptomsDescription
	}
	if len(extraction.RecommendedSpecialties) > 3 {
		extraction.RecommendedSpecialties = extraction.RecommendedSpecialties[:3]
	}

	return extraction, nil
}

func (s *ExtractionService) extractWithKeywords(text string) *entities.Extraction {
	lower := strings.ToLower(text)

	extraction := &entities.Extraction{
		InjuryDescription: strings.TrimSpace(text),
		ZipCode:           zipCodePattern.FindString(text),
	}
	if extraction.InjuryDescription == "" {
		extraction.InjuryDescription = noSymptomsDescription
	}

	for _, kw := range insuranceKeywords {
		for _, fragment := range kw.fragments {
			if strings.Contains(lower, fragment) {
				extraction.Insurance = kw.name
				break
			}
		}
		if extraction.Insurance != "" {
			break
		}
	}

	seen := map[string]bool{}
	for _, entry := range symptomSpecialties {
		for _, fragment := range entry.fragments {
			if strings.Contains(lower, fragment) && !seen[entry.specialty] {
				seen[entry.specialty] = true
				extraction.RecommendedSpecialties = append(extraction.RecommendedSpecialties, entry.specialty)
				break
			}
		}
		if len(extraction.RecommendedSpecialties) == 3 {
			break
		}
	}
	if len(extraction.RecommendedSpecialties) == 0 {
		extraction.RecommendedSpecialties = append([]string{}, defaultSpecialties...)
	}

	return extraction
}

// firstJSONObject returns the first balanced top-level JSON object in s,
// tolerating surrounding prose. Braces inside JSON strings are ignored.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
