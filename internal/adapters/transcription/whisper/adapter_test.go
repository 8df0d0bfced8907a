package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/pkg/config"
)

func newTestAdapter(url string) *Adapter {
	return NewAdapter(&config.TranscriptionConfig{
		WhisperURL:   url,
		WhisperModel: "base",
	})
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inference", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": " I hurt my knee playing soccer. "}`))
	}))
	defer srv.Close()

	transcript, err := newTestAdapter(srv.URL).Transcribe(context.Background(), []byte("fake-audio"))
	require.NoError(t, err)
	assert.Equal(t, "I hurt my knee playing soccer.", transcript.Text)
	assert.Equal(t, entities.MethodWhisper, transcript.ProcessingMethod)
	assert.InDelta(t, 0.85, transcript.Confidence, 0.001)
}

func TestTranscribe_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv.URL).Transcribe(context.Background(), []byte("fake-audio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestTranscribe_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "  "}`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv.URL).Transcribe(context.Background(), []byte("fake-audio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no speech recognized")
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, newTestAdapter(srv.URL).Available())

	srv.Close()
	assert.False(t, newTestAdapter(srv.URL).Available())
}
