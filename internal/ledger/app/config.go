package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./ledger.db)
	AccessKey    string // Optional: shared admin key; empty disables the access-key gate

	RedisAddr           string        // Optional: redis address for the verify throttle; empty disables it
	RedisPassword       string        // Optional: redis password
	ThrottleMaxFailures int           // Optional: failed verifications before throttling (default: 5)
	ThrottleCooldown    time.Duration // Optional: throttle cooldown window (default: 1m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	AttemptRetention     time.Duration // How long audit entries are kept (default: 90 days)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("LEDGER_DATABASE_FILE", "ledger.db"),
		AccessKey:    os.Getenv("LEDGER_ACCESS_KEY"),

		RedisAddr:           os.Getenv("LEDGER_REDIS_ADDR"),
		RedisPassword:       os.Getenv("LEDGER_REDIS_PASSWORD"),
		ThrottleMaxFailures: getEnvIntOrDefault("LEDGER_THROTTLE_MAX_FAILURES", 5),
		ThrottleCooldown:    getEnvDurationOrDefault("LEDGER_THROTTLE_COOLDOWN", time.Minute),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		AttemptRetention:     getEnvDurationOrDefault("ATTEMPT_RETENTION", 90*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
