package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile  string // Optional: path to SQLite database file (default: ./hadir.db)
	AdminKey      string // Optional: shared key for admin sessions; auth disabled when empty
	SessionSecret string // Optional: HS256 secret for session tokens (default: derived from AdminKey)
	SessionTTL    time.Duration
	Timezone      string // IANA name for deadline evaluation (default: Asia/Kuala_Lumpur)
	PublicBaseURL string // Base URL guests' invitation links point at

	Env                 string // Environment (dev, staging, prod) (default: dev)
	LogLevel            string // Log level (debug, info, warn, error) (default: info)
	LogFormat           string // Log format (json, text) (default: json)
	Port                int    // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseFile:  getEnvOrDefault("HADIR_DATABASE_FILE", "hadir.db"),
		AdminKey:      os.Getenv("HADIR_ADMIN_KEY"),
		SessionSecret: os.Getenv("HADIR_SESSION_SECRET"),
		SessionTTL:    getEnvDurationOrDefault("HADIR_SESSION_TTL", 12*time.Hour),
		Timezone:      getEnvOrDefault("HADIR_TIMEZONE", "Asia/Kuala_Lumpur"),
		PublicBaseURL: os.Getenv("HADIR_PUBLIC_BASE_URL"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// With an admin key but no explicit secret, the key doubles as the
	// signing secret so single-variable deployments still get real tokens.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.AdminKey
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
