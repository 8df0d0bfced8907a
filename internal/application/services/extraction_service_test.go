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
)

func TestExtract_GeneratorJSON(t *testing.T) {
	generator := new(MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return(
		`Here is the extraction you asked for:
{"injury_description": "knee pain after soccer", "zip_code": "75024", "insurance": "Cigna", "recommended_specialties": ["Orthopedics", "Sports Medicine"]}
Hope that helps!`, nil)

	svc := services.NewExtractionService(generator, nil)
	extraction := svc.Extract(context.Background(), "I hurt my knee playing soccer in 75024, I have Cigna")

	assert.Equal(t, "knee pain after soccer", extraction.InjuryDescription)
	assert.Equal(t, "75024", extraction.ZipCode)
	assert.Equal(t, "Cigna", extraction.Insurance)
	assert.Equal(t, []string{"Orthopedics", "Sports Medicine"}, extraction.RecommendedSpecialties)
	assert.Equal(t, entities.SourceLLM, extraction.Source)
}

func TestExtract_MissingFieldsDefaulted(t *testing.T) {
	generator := new(MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return(`{"zip_code": "10001"}`, nil)

	svc := services.NewExtractionService(generator, nil)
	extraction := svc.Extract(context.Background(), "something vague")

	assert.Equal(t, "No specific symptoms mentioned", extraction.InjuryDescription)
	assert.Equal(t, "10001", extraction.ZipCode)
	assert.Empty(t, extraction.Insurance)
	assert.Empty(t, extraction.RecommendedSpecialties)
}

func TestExtract_FallbackOnGeneratorError(t *testing.T) {
	generator := new(MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	svc := services.NewExtractionService(generator, nil)
	extraction := svc.Extract(context.Background(), "My knee hurts, zip 75024, I have blue cross")

	assert.Equal(t, entities.SourceFallback, extraction.Source)
	assert.Equal(t, "My knee hurts, zip 75024, I have blue cross", extraction.InjuryDescription)
	assert.Equal(t, "75024", extraction.ZipCode)
	assert.Equal(t, "Blue Cross", extraction.Insurance)
	assert.Contains(t, extraction.RecommendedSpecialties, "Orthopedics")
}

func TestExtract_FallbackOnUnparseableResponse(t *testing.T) {
	generator := new(MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return("I cannot help with that.", nil)

	svc := services.NewExtractionService(generator, nil)
	extraction := svc.Extract(context.Background(), "terrible toothache")

	assert.Equal(t, entities.SourceFallback, extraction.Source)
	assert.Contains(t, extraction.RecommendedSpecialties, "Dentist")
}

func TestExtract_NoGenerator(t *testing.T) {
	svc := services.NewExtractionService(nil, nil)
	extraction := svc.Extract(context.Background(), "just feeling off")

	assert.Equal(t, entities.SourceFallback, extraction.Source)
	assert.Equal(t, []string{"General Surgery", "Primary Care"}, extraction.RecommendedSpecialties)
	assert.Empty(t, extraction.ZipCode)
	assert.Empty(t, extraction.Insurance)
}

func TestExtract_SpecialtiesCappedAtThree(t *testing.T) {
	generator := new(MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return(
		`{"injury_description": "x", "recommended_specialties": ["A", "B", "C", "D"]}`, nil)

	svc := services.NewExtractionService(generator, nil)
	extraction := svc.Extract(context.Background(), "x")

	require.Len(t, extraction.RecommendedSpecialties, 3)
}

func TestExtract_BracesInsideStrings(t *testing.T) {
	generator := new(MockTextGenerator)
	generator.On("Generate", mock.Anything, mock.Anything).Return(
		`{"injury_description": "pain {sharp} in wrist", "zip_code": "", "insurance": "", "recommended_specialties": []}`, nil)

	svc := services.NewExtractionService(generator, nil)
	extraction := svc.Extract(context.Background(), "wrist")

	assert.Equal(t, entities.SourceLLM, extraction.Source)
	assert.Equal(t, "pain {sharp} in wrist", extraction.InjuryDescription)
}
