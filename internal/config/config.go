package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER
const (
	StoreAuto   = "auto"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	StoreDriver string
	RedisURL    string
	SQLitePath  string
	DatabaseURL string // Optional; enables content snapshots
	BackupCron  string

	Timezone          string
	Location          *time.Location
	TickInterval      time.Duration
	RegistrationDelay time.Duration
	ContentSelfHeal   bool

	AdminUsername     string
	AdminPasswordHash string
	AdminPassword     string
	JWTSecret         string

	YouTubeAPIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Environment:       getEnv("ENVIRONMENT", "production"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreAuto)),
		RedisURL:          getEnv("REDIS_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		BackupCron:        getEnv("BACKUP_CRON", "*/15 * * * *"),
		Timezone:          getEnv("TIMEZONE", ""),
		TickInterval:      getDurationEnv("TICK_INTERVAL", time.Second),
		RegistrationDelay: getDurationEnv("REGISTRATION_DELAY", 1500*time.Millisecond),
		ContentSelfHeal:   getBoolEnv("CONTENT_SELF_HEAL", true),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		YouTubeAPIKey:     getEnv("YOUTUBE_API_KEY", ""),
	}

	switch cfg.StoreDriver {
	case StoreAuto, StoreRedis, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == StoreRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("STORE_DRIVER=redis requires REDIS_URL")
	}
	if cfg.StoreDriver == StoreSQLite && cfg.SQLitePath == "" {
		return nil, fmt.Errorf("STORE_DRIVER=sqlite requires SQLITE_PATH")
	}

	cfg.Location = loadLocation(cfg.Timezone)
	return cfg, nil
}

// AdminEnabled reports whether an admin credential is configured
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != "" && (c.AdminPasswordHash != "" || c.AdminPassword != "")
}

// IsDevelopment reports whether the service runs in a development environment
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev" || env == "local"
}

// loadLocation resolves an IANA zone name; empty or unknown names use the local zone
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDurationEnv accepts Go durations ("1.5s") or plain milliseconds ("1500")
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
