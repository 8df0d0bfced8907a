package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/adapters/transcription/audio"
	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
)

// TranscriptionService turns an uploaded audio clip into a transcript. The
// preferred backend is tried first; every remaining backend is tried in order
// before the request is declared unservable.
type TranscriptionService struct {
	backends []providers.Transcriber
	metrics  *observability.Metrics
}

// NewTranscriptionService creates a transcription service trying backends in
// the given order.
func NewTranscriptionService(metrics *observability.Metrics, backends ...providers.Transcriber) *TranscriptionService {
	return &TranscriptionService{backends: backends, metrics: metrics}
}

// Transcribe normalizes the audio and runs it through the first backend that
// succeeds. The transcript's ProcessingMethod reflects the backend that
// actually produced it. When every backend fails the request is fatal with
// ErrTranscriptionUnavailable.
func (s *TranscriptionService) Transcribe(ctx context.Context, clip []byte) (*entities.Transcript, error) {
	ctx, span := observability.StartSpan(ctx, "transcription.transcribe")
	defer span.End()

	normalized := audio.Normalize(clip)

	for i, backend := range s.backends {
		if !backend.Available() {
			log.Debug().Str("method", string(backend.Method())).Msg("transcription backend unavailable, skipping")
			continue
		}

		transcript, err := backend.Transcribe(ctx, normalized)
		if err == nil {
			if i > 0 {
				observability.RecordFallback(ctx, s.metrics, "transcription")
			}
			return transcript, nil
		}
		log.Warn().Err(err).Str("method", string(backend.Method())).
			Msg("transcription backend failed, trying next")
	}

	return nil, providers.ErrTranscriptionUnavailable
}

// HealthStatus reports per-backend availability keyed by method name.
func (s *TranscriptionService) HealthStatus() map[string]bool {
	status := map[string]bool{}
	for _, backend := range s.backends {
		status[string(backend.Method())] = backend.Available()
	}
	return status
}

// PreferredMethod names the first configured backend.
func (s *TranscriptionService) PreferredMethod() entities.ProcessingMethod {
	if len(s.backends) == 0 {
		return ""
	}
	return s.backends[0].Method()
}
