package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	LLMAPIKey        string
	LLMBaseURL       string
	LLMModel         string
	JWTSecret        string
	ServiceName      string
	ServiceVersion   string

	// NativeLanguages skip the translation pass. Kept as configuration
	// rather than a broader inferred policy.
	NativeLanguages []string

	// AdvanceDelay is how long the session machine waits after an answer
	// before auto-advancing to the next question.
	AdvanceDelay time.Duration
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "quzicam"),
		RabbitMQURI:      getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "quzicam.events"),
		LLMAPIKey:        getEnvOrDefault("API_KEY", ""),
		LLMBaseURL:       getEnvOrDefault("BASE_URL", "http://localhost:11434/v1"),
		LLMModel:         getEnvOrDefault("MODEL", "gemma3:12b"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "your-jwt-secret-key"),
		ServiceName:      getEnvOrDefault("SERVICE_NAME", "quzicam"),
		ServiceVersion:   getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
		NativeLanguages:  splitList(getEnvOrDefault("NATIVE_LANGUAGES", "en,hi")),
		AdvanceDelay:     time.Duration(getEnvIntOrDefault("ADVANCE_DELAY_MS", 1000)) * time.Millisecond,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
