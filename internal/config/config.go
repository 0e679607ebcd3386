package config

import (
	"os"
	"strconv"
	"strings"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8501",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8501",
}

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL      string
	DatabaseKey      string
	Host             string
	Port             int
	Environment      string
	CorsOrigins      []string
	FanoutMode       string
	MigrationsDir    string
	LogLevel         string
	LogFormat        string
	LogDir           string
	LogRetentionDays int
}

func Load() Config {
	cfg := Config{
		DatabaseURL:      mustEnv("DATABASE_URL"),
		DatabaseKey:      envOr("DATABASE_KEY", ""),
		Host:             envOr("HOST", "0.0.0.0"),
		Port:             envOrInt("PORT", 8001),
		Environment:      environment(),
		FanoutMode:       envOr("FANOUT_MODE", "atomic"),
		MigrationsDir:    envOr("MIGRATIONS_DIR", "migrations"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "json"),
		LogDir:           envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays: retentionDays(envOrInt("LOG_RETENTION_DAYS", 7)),
	}
	cfg.CorsOrigins = allowedOrigins(parseCSV(envOr("FRONTEND_URL", "http://localhost:3000")), cfg.IsProduction())
	return cfg
}

func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// environment resolves the deployment name. Hosting platforms set their own
// variable, APP_ENV wins when present.
func environment() string {
	for _, key := range []string{"APP_ENV", "VERCEL_ENV", "RAILWAY_ENVIRONMENT"} {
		if value := strings.ToLower(envOr(key, "")); value != "" {
			return value
		}
	}
	return "development"
}

func allowedOrigins(configured []string, production bool) []string {
	origins := append([]string{}, configured...)
	if production {
		return origins
	}
	for _, origin := range devOrigins {
		if !contains(origins, origin) {
			origins = append(origins, origin)
		}
	}
	return origins
}

func retentionDays(days int) int {
	switch {
	case days < 1:
		return 7
	case days > 7:
		return 7
	default:
		return days
	}
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
