package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwaysai/patient-copilot/internal/api/handlers"
	"github.com/pathwaysai/patient-copilot/internal/application/services"
	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
)

// stubCatalog serves a fixed provider snapshot.
type stubCatalog struct {
	providers []*entities.Provider
	err       error
}

func (c *stubCatalog) Load(ctx context.Context) ([]*entities.Provider, error) {
	return c.providers, c.err
}

func (c *stubCatalog) Invalidate() {}

func (c *stubCatalog) Specialties(ctx context.Context) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	seen := map[string]bool{}
	result := []string{}
	for _, p := range c.providers {
		if !seen[p.Specialty] {
			seen[p.Specialty] = true
			result = append(result, p.Specialty)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (c *stubCatalog) Insurances(ctx context.Context) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	seen := map[string]bool{}
	result := []string{}
	for _, p := range c.providers {
		for _, ins := range p.Insurances {
			if !seen[ins] {
				seen[ins] = true
				result = append(result, ins)
			}
		}
	}
	sort.Strings(result)
	return result, nil
}

// stubTranscriber returns a canned transcript.
type stubTranscriber struct {
	transcript *entities.Transcript
	err        error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte) (*entities.Transcript, error) {
	return s.transcript, s.err
}

func (s *stubTranscriber) Method() entities.ProcessingMethod { return entities.MethodWhisper }
func (s *stubTranscriber) Available() bool                   { return true }

var testProviders = []*entities.Provider{
	{Name: "Dr. Ortho", Specialty: "Orthopedics", ZipCode: "75024", Insurances: []string{"Cigna"}},
	{Name: "Dr. Cardio", Specialty: "Cardiology", ZipCode: "10001", Insurances: []string{"Aetna"}},
}

func newIntakeHandler(catalog repositories.ProviderCatalog, transcriber *stubTranscriber) *handlers.IntakeHandler {
	backends := []*stubTranscriber{}
	if transcriber != nil {
		backends = append(backends, transcriber)
	}

	transcription := services.NewTranscriptionService(nil)
	if len(backends) > 0 {
		transcription = services.NewTranscriptionService(nil, backends[0])
	}

	intake := services.NewIntakeService(
		transcription,
		services.NewExtractionService(nil, nil),
		services.NewSpecialtyService(nil, catalog, nil),
		services.NewRankingService(3),
		catalog, nil, nil,
	)

	return handlers.NewIntakeHandler(intake, transcription)
}

func TestProcessText(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	form := url.Values{}
	form.Set("text_input", "My knee hurts, zip 75024, I have Cigna")

	req := httptest.NewRequest(http.MethodPost, "/api/voice/process-text", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.ProcessText(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success                  bool                   `json:"success"`
		ExtractedInfo            map[string]interface{} `json:"extracted_info"`
		SpecialtyRecommendations []string               `json:"specialty_recommendations"`
		Providers                []entities.RankedMatch `json:"providers"`
		TotalProvidersFound      int                    `json:"total_providers_found"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "75024", resp.ExtractedInfo["zip_code"])
	assert.Contains(t, resp.SpecialtyRecommendations, "Orthopedics")
	require.NotEmpty(t, resp.Providers)
	assert.Equal(t, "Dr. Ortho", resp.Providers[0].Name)
	assert.Equal(t, 2, resp.TotalProvidersFound)
}

func TestProcessText_RequiresInput(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/voice/process-text", strings.NewReader("text_input="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.ProcessText(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessText_CatalogUnavailable(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{err: repositories.ErrCatalogUnavailable}, nil)

	form := url.Values{}
	form.Set("text_input", "My knee hurts")

	req := httptest.NewRequest(http.MethodPost, "/api/voice/process-text", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.ProcessText(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func buildAudioUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="audio_file"; filename="clip.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte("fake-wav-bytes"))
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadAudio(t *testing.T) {
	transcriber := &stubTranscriber{
		transcript: &entities.Transcript{
			Text:             "my knee hurts, zip 75024",
			Confidence:       0.85,
			ProcessingMethod: entities.MethodWhisper,
		},
	}
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, transcriber)

	body, contentType := buildAudioUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/voice/upload-audio", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadAudio(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		VoiceProcessing struct {
			Transcription    string `json:"transcription"`
			ProcessingMethod string `json:"processing_method"`
		} `json:"voice_processing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "my knee hurts, zip 75024", resp.VoiceProcessing.Transcription)
	assert.Equal(t, "whisper", resp.VoiceProcessing.ProcessingMethod)
}

func TestUploadAudio_NoBackends(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	body, contentType := buildAudioUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/voice/upload-audio", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadAudio(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadAudio_MissingFile(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("insurance", "Cigna")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/voice/upload-audio", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.UploadAudio(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchProviders(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	payload, _ := json.Marshal(map[string]string{
		"injury_description": "sprained ankle",
		"zip_code":           "75024",
		"insurance":          "Cigna",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.MatchProviders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Providers []entities.RankedMatch `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Providers)
}

func TestMatchProviders_RequiresDescription(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{"zip_code":"75024"}`))
	rec := httptest.NewRecorder()

	handler.MatchProviders(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoiceHealth(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders},
		&stubTranscriber{transcript: &entities.Transcript{Text: "x"}})

	req := httptest.NewRequest(http.MethodGet, "/api/voice/health", nil)
	rec := httptest.NewRecorder()

	handler.VoiceHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success         bool            `json:"success"`
		VoiceServices   map[string]bool `json:"voice_services"`
		PreferredMethod string          `json:"preferred_method"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.VoiceServices["whisper"])
	assert.Equal(t, "whisper", resp.PreferredMethod)
}

func TestSubmitSymptoms(t *testing.T) {
	handler := newIntakeHandler(&stubCatalog{providers: testProviders}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/symptoms", strings.NewReader(`{"symptoms":"sore throat"}`))
	rec := httptest.NewRecorder()

	handler.SubmitSymptoms(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sore throat")
}
