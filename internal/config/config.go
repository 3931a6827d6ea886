package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Conversation history backends selectable via CONVERSATION_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Cloud API
	WhatsAppAccessToken string
	WhatsAppVerifyToken string
	WhatsAppBusinessID  string
	WhatsAppAPIURL      string
	TypingDelay         time.Duration

	// Gemini chat completion
	GeminiAPIKey string
	GeminiModel  string

	// Fare search
	FlightsAPIKey              string
	FlightsAPIURL              string
	FlightsCurrency            string
	FlightsLocale              string
	FlightsPlaceholderFallback bool

	// Speech-to-text
	SpeechAPIKey string

	// Conversation history backend
	ConversationBackend string
	ConversationTable   string
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool
	AWSRegion           string

	OutboundTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WhatsAppAccessToken: getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppBusinessID:  getEnv("WHATSAPP_BUSINESS_ID", ""),
		WhatsAppAPIURL:      getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v22.0"),
		TypingDelay:         getEnvAsDuration("TYPING_DELAY", time.Second),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		FlightsAPIKey:              getEnv("FLIGHTS_API_KEY", ""),
		FlightsAPIURL:              getEnv("FLIGHTS_API_URL", "https://skyscanner44.p.rapidapi.com/browsequotes"),
		FlightsCurrency:            getEnv("FLIGHTS_CURRENCY", "BRL"),
		FlightsLocale:              getEnv("FLIGHTS_LOCALE", "pt-BR"),
		FlightsPlaceholderFallback: getEnvAsBool("FLIGHTS_PLACEHOLDER_FALLBACK", false),

		SpeechAPIKey: getEnv("SPEECH_API_KEY", ""),

		ConversationBackend: strings.ToLower(strings.TrimSpace(getEnv("CONVERSATION_BACKEND", BackendMemory))),
		ConversationTable:   getEnv("CONVERSATION_TABLE", "conversation_history"),
		RedisAddr:           getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),

		OutboundTimeout: getEnvAsDuration("OUTBOUND_TIMEOUT", 0),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
