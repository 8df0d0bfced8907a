package providers

import (
	"context"
	"errors"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
)

// ErrTranscriptionUnavailable is returned when no transcription backend can
// serve a request. It is fatal only for audio requests.
var ErrTranscriptionUnavailable = errors.New("no transcription backend available")

// Transcriber converts an audio clip into text. Implementations report which
// backend actually produced the transcript via the ProcessingMethod tag.
type Transcriber interface {
	// Transcribe recognizes speech in the given audio payload.
	Transcribe(ctx context.Context, audio []byte) (*entities.Transcript, error)

	// Method identifies the backend.
	Method() entities.ProcessingMethod

	// Available reports whether the backend is configured and reachable
	// enough to attempt a call.
	Available() bool
}
