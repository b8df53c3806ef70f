package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Session tokens
	JWTSecret      string
	AccessTokenTTL time.Duration

	// EnforceAdminRole controls whether admin routes verify the caller's
	// role. When false any authenticated user is admitted (demo mode).
	EnforceAdminRole bool

	// RequireBookingReason makes the free-text reason mandatory when a
	// patient books an appointment.
	RequireBookingReason bool

	// Appointment list cache
	CacheTTL time.Duration

	// Rate limiting for the auth endpoints (requests/sec per IP).
	AuthRateLimit float64
	AuthRateBurst int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		AccessTokenTTL:       getEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		EnforceAdminRole:     getEnvAsBool("ENFORCE_ADMIN_ROLE", true),
		RequireBookingReason: getEnvAsBool("REQUIRE_BOOKING_REASON", true),
		CacheTTL:             getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		AuthRateLimit:        getEnvAsFloat("AUTH_RATE_LIMIT", 5),
		AuthRateBurst:        getEnvAsInt("AUTH_RATE_BURST", 10),
		CORSAllowedOrigins:   splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

func splitAndTrim(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
