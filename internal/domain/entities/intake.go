package entities

// ProcessingMethod identifies which transcription backend produced a
// transcript.
type ProcessingMethod string

const (
	// MethodGoogle marks transcripts produced by Google Cloud Speech-to-Text.
	MethodGoogle ProcessingMethod = "google"

	// MethodWhisper marks transcripts produced by the local whisper server.
	MethodWhisper ProcessingMethod = "whisper"
)

// ExtractionSource identifies which strategy produced a structured
// extraction or a specialty recommendation.
type ExtractionSource string

const (
	// SourceLLM marks results produced by the text-generation capability.
	SourceLLM ExtractionSource = "llm"

	// SourceFallback marks results produced by the deterministic fallback.
	SourceFallback ExtractionSource = "fallback"
)

// Transcript is the result of one audio transcription. Confidence is in
// [0,1] and may be zero when the backend reports none.
type Transcript struct {
	Text             string           `json:"transcription"`
	Confidence       float64          `json:"confidence"`
	ProcessingMethod ProcessingMethod `json:"processing_method"`
}

// Extraction is the structured record pulled out of raw intake text.
// InjuryDescription degrades to the raw text when extraction falls back.
type Extraction struct {
	InjuryDescription      string           `json:"injury_description"`
	ZipCode                string           `json:"zip_code"`
	Insurance              string           `json:"insurance"`
	RecommendedSpecialties []string         `json:"recommended_specialties"`
	Source                 ExtractionSource `json:"-"`
}

// Recommendation is an ordered list of 1-3 specialty names, each guaranteed
// to exist in the catalog taxonomy at the time of the call.
type Recommendation struct {
	Specialties []string         `json:"specialties"`
	Source      ExtractionSource `json:"-"`
}

// MatchResult is the full output of one intake-to-match run.
type MatchResult struct {
	Transcript     *Transcript    `json:"voice_processing,omitempty"`
	Extraction     *Extraction    `json:"extracted_info"`
	Recommendation Recommendation `json:"specialty_recommendations"`
	Matches        []RankedMatch  `json:"providers"`
	TotalFound     int            `json:"total_providers_found"`
}
