package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

type Config struct {
	APIPort  string
	LogLevel string

	LLMProvider    string
	GoogleAPIKey   string
	GeminiBaseURL  string
	GeminiModel    string
	OllamaURL      string
	OllamaGenModel string

	LLMTimeout          time.Duration
	LLMRetryMaxAttempts int
	LLMBreakerEnabled   bool

	ClassifyTimeout     time.Duration
	DescribeConcurrency int
	MaxQueryRunes       int

	ReferenceSource         string
	ReferenceSheet          string
	ReferenceTable          string
	ReferenceBandColumn     string
	ReferenceMaterialColumn string
	RulesPath               string

	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxInFlight    int

	NATSURL             string
	NATSClassifySubject string
	NATSEventsSubject   string

	ClassificationLogDSN string

	WorkerMetricsPort string
	WorkerConcurrency int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		LLMProvider:    strings.ToLower(mustEnv("LLM_PROVIDER", ProviderGemini)),
		GoogleAPIKey:   mustEnv("GOOGLE_API_KEY", ""),
		GeminiBaseURL:  mustEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:    mustEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaURL:      mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaGenModel: mustEnv("OLLAMA_GEN_MODEL", "llama3.1:8b"),

		LLMTimeout:          mustEnvDuration("LLM_TIMEOUT", 30*time.Second),
		LLMRetryMaxAttempts: mustEnvInt("LLM_RETRY_MAX_ATTEMPTS", 2),
		LLMBreakerEnabled:   mustEnvBool("LLM_BREAKER_ENABLED", true),

		ClassifyTimeout:     mustEnvDuration("CLASSIFY_TIMEOUT", 90*time.Second),
		DescribeConcurrency: mustEnvInt("DESCRIBE_CONCURRENCY", 4),
		MaxQueryRunes:       mustEnvInt("MAX_QUERY_RUNES", 300),

		ReferenceSource:         mustEnv("REFERENCE_SOURCE", ""),
		ReferenceSheet:          mustEnv("REFERENCE_SHEET", ""),
		ReferenceTable:          mustEnv("REFERENCE_TABLE", "tariff_bands"),
		ReferenceBandColumn:     mustEnv("REFERENCE_BAND_COLUMN", ""),
		ReferenceMaterialColumn: mustEnv("REFERENCE_MATERIAL_COLUMN", ""),
		RulesPath:               mustEnv("RULES_PATH", ""),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 5),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 10),
		APIMaxInFlight:    mustEnvInt("API_MAX_IN_FLIGHT", 32),

		NATSURL:             mustEnv("NATS_URL", ""),
		NATSClassifySubject: mustEnv("NATS_CLASSIFY_SUBJECT", "hs.classify"),
		NATSEventsSubject:   mustEnv("NATS_EVENTS_SUBJECT", "classification.completed"),

		ClassificationLogDSN: mustEnv("CLASSIFICATION_LOG_DSN", ""),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
		WorkerConcurrency: mustEnvInt("WORKER_CONCURRENCY", 4),
	}
}

// Validate reports missing settings that make the service unusable.
func (c Config) Validate() error {
	var problems []error
	switch c.LLMProvider {
	case ProviderGemini:
		if strings.TrimSpace(c.GoogleAPIKey) == "" {
			problems = append(problems, errors.New("GOOGLE_API_KEY is required for the gemini provider"))
		}
	case ProviderOllama:
		if strings.TrimSpace(c.OllamaURL) == "" {
			problems = append(problems, errors.New("OLLAMA_URL is required for the ollama provider"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if strings.TrimSpace(c.ReferenceSource) == "" {
		problems = append(problems, errors.New("REFERENCE_SOURCE is required"))
	}
	if c.MaxQueryRunes <= 0 {
		problems = append(problems, errors.New("MAX_QUERY_RUNES must be positive"))
	}
	if len(problems) == 0 {
		return nil
	}
	return domain.WrapError(domain.ErrConfig, "validate config", errors.Join(problems...))
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// mustEnvDuration accepts Go durations ("45s") and bare seconds ("45").
func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
