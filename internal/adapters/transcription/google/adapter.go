package google

import (
	"context"
	"fmt"
	"os"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/pkg/config"
)

// Adapter implements speech recognition using Google Cloud Speech-to-Text.
type Adapter struct {
	client       *speech.Client
	languageCode string
	available    bool
}

var _ providers.Transcriber = (*Adapter)(nil)

// NewAdapter creates a Google Cloud Speech transcriber. Credentials come from
// GOOGLE_APPLICATION_CREDENTIALS. When credentials are absent the adapter is
// created in an unavailable state so callers can fall back to another backend.
func NewAdapter(ctx context.Context, cfg *config.TranscriptionConfig) (*Adapter, error) {
	if cfg.GoogleCredsFile == "" {
		log.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS not set, cloud transcription disabled")
		return &Adapter{languageCode: cfg.LanguageCode}, nil
	}
	if _, err := os.Stat(cfg.GoogleCredsFile); err != nil {
		log.Warn().Str("path", cfg.GoogleCredsFile).
			Msg("Google credentials file not found, cloud transcription disabled")
		return &Adapter{languageCode: cfg.LanguageCode}, nil
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	return &Adapter{
		client:       client,
		languageCode: cfg.LanguageCode,
		available:    true,
	}, nil
}

// Transcribe performs synchronous recognition on the given audio. The payload
// is expected to be 16 kHz mono LINEAR16 WAV.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (*entities.Transcript, error) {
	if !a.available {
		return nil, fmt.Errorf("google speech client not configured")
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: 16000,
			LanguageCode:    a.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("speech recognition failed: %w", err)
	}

	text := ""
	confidence := 0.0
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		if text != "" {
			text += " "
		}
		text += alt.Transcript
		if float64(alt.Confidence) > confidence {
			confidence = float64(alt.Confidence)
		}
	}

	if text == "" {
		return nil, fmt.Errorf("no speech recognized in audio")
	}

	return &entities.Transcript{
		Text:             text,
		Confidence:       confidence,
		ProcessingMethod: entities.MethodGoogle,
	}, nil
}

// Method identifies this backend.
func (a *Adapter) Method() entities.ProcessingMethod {
	return entities.MethodGoogle
}

// Available reports whether the client was configured with credentials.
func (a *Adapter) Available() bool {
	return a.available
}

// Close releases the underlying gRPC connection.
func (a *Adapter) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}
