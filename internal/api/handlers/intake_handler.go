package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/application/services"
)

// maxAudioUploadBytes caps audio uploads at 25 MB.
const maxAudioUploadBytes = 25 << 20

// IntakeHandler handles the voice and text intake endpoints.
type IntakeHandler struct {
	intake *services.IntakeService
	voice  *services.TranscriptionService
}

// NewIntakeHandler creates a new intake handler.
func NewIntakeHandler(intake *services.IntakeService, voice *services.TranscriptionService) *IntakeHandler {
	return &IntakeHandler{intake: intake, voice: voice}
}

// UploadAudio handles POST /api/voice/upload-audio
func (h *IntakeHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)

	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "audio_file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "audio/") {
		respondWithError(w, http.StatusBadRequest, "file must be an audio file")
		return
	}

	clip, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	log.Info().Str("filename", header.Filename).Int("bytes", len(clip)).
		Msg("processing audio upload")

	result, err := h.intake.ProcessAudio(r.Context(), clip)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":                   true,
		"voice_processing":          result.Transcript,
		"extracted_info":            result.Extraction,
		"specialty_recommendations": result.Recommendation.Specialties,
		"providers":                 result.Matches,
		"total_providers_found":     result.TotalFound,
	})
}

// ProcessText handles POST /api/voice/process-text
func (h *IntakeHandler) ProcessText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	text := r.FormValue("text_input")
	if strings.TrimSpace(text) == "" {
		respondWithError(w, http.StatusBadRequest, "text_input is required")
		return
	}

	result, err := h.intake.ProcessText(r.Context(), text)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":                   true,
		"extracted_info":            result.Extraction,
		"specialty_recommendations": result.Recommendation.Specialties,
		"providers":                 result.Matches,
		"total_providers_found":     result.TotalFound,
	})
}

type matchRequest struct {
	InjuryDescription string `json:"injury_description"`
	ZipCode           string `json:"zip_code"`
	Insurance         string `json:"insurance"`
}

// MatchProviders handles POST /api/match
func (h *IntakeHandler) MatchProviders(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.InjuryDescription) == "" {
		respondWithError(w, http.StatusBadRequest, "injury_description is required")
		return
	}

	result, err := h.intake.MatchProviders(r.Context(), req.InjuryDescription, req.ZipCode, req.Insurance)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":                   true,
		"specialty_recommendations": result.Recommendation.Specialties,
		"providers":                 result.Matches,
		"total_providers_found":     result.TotalFound,
	})
}

// VoiceHealth handles GET /api/voice/health
func (h *IntakeHandler) VoiceHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"voice_services":   h.voice.HealthStatus(),
		"preferred_method": h.voice.PreferredMethod(),
		"message":          "Voice services are operational",
	})
}

type symptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

// SubmitSymptoms handles POST /api/symptoms
func (h *IntakeHandler) SubmitSymptoms(w http.ResponseWriter, r *http.Request) {
	var req symptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "OK, we got your symptoms: " + req.Symptoms +
			". We are going to do some further analysis and get back to you.",
	})
}
