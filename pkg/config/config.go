package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Typesense     TypesenseConfig
	Catalog       CatalogConfig
	LLM           LLMConfig
	Transcription TranscriptionConfig
	Matching      MatchingConfig
	OTEL          OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// CatalogConfig holds provider catalog source configuration
type CatalogConfig struct {
	// Path is the preferred location of the provider data file. When empty,
	// a set of conventional locations is probed instead.
	Path string
}

// LLMConfig holds text-generation capability configuration.
// Provider selects between the hosted OpenAI API and a local Ollama server.
type LLMConfig struct {
	Provider       string
	OpenAIAPIKey   string
	OpenAIModel    string
	OllamaURL      string
	OllamaModel    string
	RateLimitRPM   int
	RateLimitBurst int
}

// TranscriptionConfig holds speech-to-text configuration.
type TranscriptionConfig struct {
	// UseCloud prefers the Google Cloud Speech backend when true; the local
	// whisper server remains the fallback either way.
	UseCloud        bool
	GoogleCredsFile string
	LanguageCode    string
	WhisperURL      string
	WhisperModel    string
}

// MatchingConfig holds provider matching configuration
type MatchingConfig struct {
	TopK int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Env:            getEnv("ENV", "production"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "patient_copilot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("PROVIDER_DATA_PATH", ""),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OllamaURL:      getEnv("OLLAMA_API_URL", "http://localhost:11434/api"),
			OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
			RateLimitRPM:   getEnvAsInt("LLM_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("LLM_RATE_LIMIT_BURST", 5),
		},
		Transcription: TranscriptionConfig{
			UseCloud:        getEnvAsBool("USE_CLOUD_SPEECH", false),
			GoogleCredsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			LanguageCode:    getEnv("SPEECH_LANGUAGE_CODE", "en-US"),
			WhisperURL:      getEnv("WHISPER_API_URL", "http://localhost:8178"),
			WhisperModel:    getEnv("WHISPER_MODEL", "base"),
		},
		Matching: MatchingConfig{
			TopK: getEnvAsInt("MATCH_TOP_K", 3),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "patient-copilot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
