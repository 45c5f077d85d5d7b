package config

import (
	"strings"
	"time"

	"github.com/zee-1/TheSnitchBot-sub001/pkg/config"
)

// Config stores environment configuration for the leak service.
type Config struct {
	Port             string
	DatabaseURL      string
	LLMProvider      string
	LLMModel         string
	LLMAPIKey        string
	LLMAPIURL        string
	LLMMaxTokens     int
	KafkaBrokers     []string
	KafkaClientID    string
	UsageKafkaTopic  string
	ServiceAuthToken string
	DefaultPersona   string
	WindowSize       int
	MessageRetention time.Duration
	MaxCandidates    int
	FallbackLimit    int
}

// LoadConfig loads the service configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:             config.GetEnv("PORT", "18030"),
		DatabaseURL:      config.RequireEnv("DATABASE_URL"),
		LLMProvider:      config.GetEnv("LLM_PROVIDER", ""),
		LLMModel:         config.GetEnv("LLM_MODEL", ""),
		LLMAPIKey:        config.GetEnv("LLM_API_KEY", ""),
		LLMAPIURL:        config.GetEnv("LLM_API_URL", ""),
		LLMMaxTokens:     config.GetEnvInt("LLM_MAX_TOKENS", 4096),
		KafkaBrokers:     parseList(config.GetEnv("KAFKA_BROKERS", "")),
		KafkaClientID:    config.GetEnv("KAFKA_CLIENT_ID", "snitch"),
		UsageKafkaTopic:  config.GetEnv("USAGE_KAFKA_TOPIC", "snitch.leak_usage"),
		ServiceAuthToken: config.GetEnv("SNITCH_SERVICE_TOKEN", ""),
		DefaultPersona:   config.GetEnv("SNITCH_DEFAULT_PERSONA", "sassy_reporter"),
		WindowSize:       config.GetEnvInt("SNITCH_WINDOW_SIZE", 200),
		MessageRetention: parseDuration(config.GetEnv("SNITCH_MESSAGE_RETENTION", "24h"), 24*time.Hour),
		MaxCandidates:    config.GetEnvInt("SNITCH_MAX_CANDIDATES", 50),
		FallbackLimit:    config.GetEnvInt("SNITCH_FALLBACK_LIMIT", 10),
	}
}

func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
