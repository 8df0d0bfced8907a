package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/pkg/config"
)

// localConfidence is reported for local transcripts. The whisper server does
// not return a confidence score, so a fixed mid-high value is used.
const localConfidence = 0.85

// Adapter implements speech recognition against a local whisper HTTP server.
type Adapter struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ providers.Transcriber = (*Adapter)(nil)

// NewAdapter creates a whisper transcriber pointed at the configured server.
func NewAdapter(cfg *config.TranscriptionConfig) *Adapter {
	return &Adapter{
		baseURL: strings.TrimRight(cfg.WhisperURL, "/"),
		model:   cfg.WhisperModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Transcribe uploads the audio to the whisper server and returns its text.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (*entities.Transcript, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/inference", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result inferenceResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse whisper response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("whisper server error: %s", result.Error)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil, fmt.Errorf("no speech recognized in audio")
	}

	return &entities.Transcript{
		Text:             text,
		Confidence:       localConfidence,
		ProcessingMethod: entities.MethodWhisper,
	}, nil
}

// Method identifies this backend.
func (a *Adapter) Method() entities.ProcessingMethod {
	return entities.MethodWhisper
}

// Available probes the server health endpoint.
func (a *Adapter) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
