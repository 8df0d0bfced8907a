package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("MATCH_TOP_K")
	os.Unsetenv("LLM_PROVIDER")
	os.Unsetenv("USE_CLOUD_SPEECH")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 3, cfg.Matching.TopK)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.False(t, cfg.Transcription.UseCloud)
	assert.Equal(t, "http://localhost:11434/api", cfg.LLM.OllamaURL)
	assert.Equal(t, "en-US", cfg.Transcription.LanguageCode)
}

func TestLoad_TranscriptionConfig(t *testing.T) {
	os.Setenv("USE_CLOUD_SPEECH", "true")
	os.Setenv("WHISPER_API_URL", "http://whisper:9000")
	defer func() {
		os.Unsetenv("USE_CLOUD_SPEECH")
		os.Unsetenv("WHISPER_API_URL")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.True(t, cfg.Transcription.UseCloud)
	assert.Equal(t, "http://whisper:9000", cfg.Transcription.WhisperURL)
}

func TestLoad_MatchingTopK(t *testing.T) {
	os.Setenv("MATCH_TOP_K", "5")
	defer os.Unsetenv("MATCH_TOP_K")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 5, cfg.Matching.TopK)
}

func TestLoad_LLMProviderNormalized(t *testing.T) {
	os.Setenv("LLM_PROVIDER", "OLLAMA")
	defer os.Unsetenv("LLM_PROVIDER")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "patient_copilot", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=patient_copilot sslmode=disable",
		cfg.DatabaseDSN(),
	)
}
