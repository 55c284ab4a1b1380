package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiTemperature    float64
	GeminiMaxToolIters   int
	GeminiConcurrentReqs int

	// History persistence
	HistoryBackend  string
	HistoryPath     string
	HistoryTTLHours int
	DatabaseURL     string
	RedisURL        string
	SQLitePath      string

	// Sessions
	JWTSecret          string
	SessionTTLHours    int
	RateLimitPerMinute int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTemperature:    getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7),
		GeminiMaxToolIters:   getEnvAsIntOrDefault("GEMINI_MAX_TOOL_ITERATIONS", 5),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		HistoryBackend:       strings.ToLower(getEnvOrDefault("HISTORY_BACKEND", BackendFile)),
		HistoryPath:          getEnvOrDefault("HISTORY_PATH", "./data/history"),
		HistoryTTLHours:      getEnvAsIntOrDefault("HISTORY_TTL_HOURS", 0),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		SQLitePath:           getEnvOrDefault("SQLITE_PATH", "./data/history.db"),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		SessionTTLHours:      getEnvAsIntOrDefault("SESSION_TTL_HOURS", 24),
		RateLimitPerMinute:   getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// Validate checks the settings each history backend depends on.
func (c *Config) Validate() error {
	switch c.HistoryBackend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for history backend %q", c.HistoryBackend)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for history backend %q", c.HistoryBackend)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for history backend %q", c.HistoryBackend)
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q (valid: file, postgres, redis, sqlite, memory)", c.HistoryBackend)
	}
	if c.GeminiTemperature < 0 || c.GeminiTemperature > 1 {
		return fmt.Errorf("GEMINI_TEMPERATURE must be between 0.0 and 1.0, got %v", c.GeminiTemperature)
	}
	return nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
