package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pathwaysai/patient-copilot/internal/application/services"
	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
)

var catalogProviders = []*entities.Provider{
	{Name: "Dr. Ortho", Specialty: "Orthopedics", ZipCode: "75024", Insurances: []string{"Cigna"}, Availability: "2026-09-15"},
	{Name: "Dr. Cardio", Specialty: "Cardiology", ZipCode: "10001", Insurances: []string{"Aetna"}},
	{Name: "Dr. Primary", Specialty: "Primary Care", ZipCode: "75025", Insurances: []string{"Cigna", "Medicare"}},
}

func newIntakeService(catalog *MockCatalog, transcribers ...providers.Transcriber) *services.IntakeService {
	// The generation path stays disabled so the pipeline exercises the
	// deterministic fallbacks end to end.
	extraction := services.NewExtractionService(nil, nil)
	specialty := services.NewSpecialtyService(nil, catalog, nil)
	ranking := services.NewRankingService(3)
	transcription := services.NewTranscriptionService(nil, transcribers...)

	return services.NewIntakeService(transcription, extraction, specialty, ranking, catalog, nil, nil)
}

func TestProcessText_EndToEndFallback(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("Specialties", mock.Anything).Return(
		[]string{"Cardiology", "Orthopedics", "Primary Care"}, nil)
	catalog.On("Load", mock.Anything).Return(catalogProviders, nil)

	svc := newIntakeService(catalog)
	result, err := svc.ProcessText(context.Background(), "My knee hurts, zip 75024, I have Cigna")

	require.NoError(t, err)
	assert.Equal(t, "75024", result.Extraction.ZipCode)
	assert.Equal(t, "Cigna", result.Extraction.Insurance)
	assert.Contains(t, result.Recommendation.Specialties, "Orthopedics")
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "Dr. Ortho", result.Matches[0].Name)
	assert.Equal(t, 3, result.TotalFound)
	assert.Nil(t, result.Transcript)
}

func TestProcessText_CatalogUnavailableIsFatal(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("Specialties", mock.Anything).Return(nil, repositories.ErrCatalogUnavailable)

	svc := newIntakeService(catalog)
	_, err := svc.ProcessText(context.Background(), "My knee hurts")

	assert.ErrorIs(t, err, repositories.ErrCatalogUnavailable)
}

func TestProcessAudio_AttachesTranscript(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("Specialties", mock.Anything).Return(
		[]string{"Cardiology", "Orthopedics", "Primary Care"}, nil)
	catalog.On("Load", mock.Anything).Return(catalogProviders, nil)

	local := &MockTranscriber{method: entities.MethodWhisper, available: true}
	local.On("Transcribe", mock.Anything, mock.Anything).Return(
		&entities.Transcript{Text: "my knee hurts, zip 75024", Confidence: 0.85, ProcessingMethod: entities.MethodWhisper}, nil)

	svc := newIntakeService(catalog, local)
	result, err := svc.ProcessAudio(context.Background(), []byte("audio"))

	require.NoError(t, err)
	require.NotNil(t, result.Transcript)
	assert.Equal(t, entities.MethodWhisper, result.Transcript.ProcessingMethod)
	assert.Equal(t, "75024", result.Extraction.ZipCode)
}

func TestProcessAudio_TranscriptionUnavailableIsFatal(t *testing.T) {
	catalog := new(MockCatalog)

	svc := newIntakeService(catalog)
	_, err := svc.ProcessAudio(context.Background(), []byte("audio"))

	assert.ErrorIs(t, err, providers.ErrTranscriptionUnavailable)
}

func TestMatchProviders_StructuredInput(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("Specialties", mock.Anything).Return(
		[]string{"Cardiology", "Orthopedics", "Primary Care"}, nil)
	catalog.On("Load", mock.Anything).Return(catalogProviders, nil)

	svc := newIntakeService(catalog)
	result, err := svc.MatchProviders(context.Background(), "sprained ankle", "75024", "Cigna")

	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, 3, result.TotalFound)
}

func TestInvalidateCatalog_PurgesCacheAndReindexes(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("Invalidate").Return()
	catalog.On("Load", mock.Anything).Return(catalogProviders, nil)

	cache := new(MockCache)
	cache.On("DeleteByPrefix", mock.Anything, "catalog:").Return(nil)

	search := new(MockSearchRepository)
	search.On("IndexProviders", mock.Anything, catalogProviders).Return(nil)

	svc := services.NewIntakeService(
		services.NewTranscriptionService(nil),
		services.NewExtractionService(nil, nil),
		services.NewSpecialtyService(nil, catalog, nil),
		services.NewRankingService(3),
		catalog, search, cache,
	)

	require.NoError(t, svc.InvalidateCatalog(context.Background()))
	catalog.AssertCalled(t, "Invalidate")
	cache.AssertExpectations(t)
	search.AssertExpectations(t)
}

func TestInvalidateCatalog_SearchFailureNotFatal(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("Invalidate").Return()
	catalog.On("Load", mock.Anything).Return(catalogProviders, nil)

	search := new(MockSearchRepository)
	search.On("IndexProviders", mock.Anything, mock.Anything).Return(errors.New("typesense down"))

	svc := services.NewIntakeService(
		services.NewTranscriptionService(nil),
		services.NewExtractionService(nil, nil),
		services.NewSpecialtyService(nil, catalog, nil),
		services.NewRankingService(3),
		catalog, search, nil,
	)

	assert.NoError(t, svc.InvalidateCatalog(context.Background()))
}
