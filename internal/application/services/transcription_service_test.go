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
)

func TestTranscribe_PreferredBackendWins(t *testing.T) {
	cloud := &MockTranscriber{method: entities.MethodGoogle, available: true}
	cloud.On("Transcribe", mock.Anything, mock.Anything).Return(
		&entities.Transcript{Text: "hello", Confidence: 0.95, ProcessingMethod: entities.MethodGoogle}, nil)

	local := &MockTranscriber{method: entities.MethodWhisper, available: true}

	svc := services.NewTranscriptionService(nil, cloud, local)
	transcript, err := svc.Transcribe(context.Background(), []byte("audio"))

	require.NoError(t, err)
	assert.Equal(t, entities.MethodGoogle, transcript.ProcessingMethod)
	local.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestTranscribe_FallsBackToLocal(t *testing.T) {
	cloud := &MockTranscriber{method: entities.MethodGoogle, available: true}
	cloud.On("Transcribe", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	local := &MockTranscriber{method: entities.MethodWhisper, available: true}
	local.On("Transcribe", mock.Anything, mock.Anything).Return(
		&entities.Transcript{Text: "hello", Confidence: 0.85, ProcessingMethod: entities.MethodWhisper}, nil)

	svc := services.NewTranscriptionService(nil, cloud, local)
	transcript, err := svc.Transcribe(context.Background(), []byte("audio"))

	require.NoError(t, err)
	assert.Equal(t, entities.MethodWhisper, transcript.ProcessingMethod)
}

func TestTranscribe_SkipsUnavailableBackend(t *testing.T) {
	cloud := &MockTranscriber{method: entities.MethodGoogle, available: false}

	local := &MockTranscriber{method: entities.MethodWhisper, available: true}
	local.On("Transcribe", mock.Anything, mock.Anything).Return(
		&entities.Transcript{Text: "hi", ProcessingMethod: entities.MethodWhisper}, nil)

	svc := services.NewTranscriptionService(nil, cloud, local)
	transcript, err := svc.Transcribe(context.Background(), []byte("audio"))

	require.NoError(t, err)
	assert.Equal(t, entities.MethodWhisper, transcript.ProcessingMethod)
	cloud.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestTranscribe_AllBackendsFail(t *testing.T) {
	cloud := &MockTranscriber{method: entities.MethodGoogle, available: true}
	cloud.On("Transcribe", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	local := &MockTranscriber{method: entities.MethodWhisper, available: false}

	svc := services.NewTranscriptionService(nil, cloud, local)
	_, err := svc.Transcribe(context.Background(), []byte("audio"))

	assert.ErrorIs(t, err, providers.ErrTranscriptionUnavailable)
}

func TestHealthStatus(t *testing.T) {
	cloud := &MockTranscriber{method: entities.MethodGoogle, available: false}
	local := &MockTranscriber{method: entities.MethodWhisper, available: true}

	svc := services.NewTranscriptionService(nil, cloud, local)

	status := svc.HealthStatus()
	assert.False(t, status["google"])
	assert.True(t, status["whisper"])
	assert.Equal(t, entities.MethodGoogle, svc.PreferredMethod())
}
