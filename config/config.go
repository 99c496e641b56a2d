package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Timeline TimelineConfig
	MediaMTX MediaMTXConfig
}

type ServerConfig struct {
	Port            string
	GinMode         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// Resolve requests allowed per second per client IP, with the given burst.
	ResolveRateLimit float64
	ResolveBurst     int
}

type DatabaseConfig struct {
	Driver   string // postgres, mysql, sqlite
	DSN      string // overrides the host/port fields when set
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string
	SeedDemo bool
}

type LogConfig struct {
	Level  string
	Format string // text, json or cli
}

type TimelineConfig struct {
	Timezone string
}

type MediaMTXConfig struct {
	Host         string
	APIPort      string
	PublicHost   string
	HTTPPort     string
	PlaybackPort string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS",
				"http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173")),
			ShutdownTimeout:  getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
			ResolveRateLimit: getFloatEnv("RESOLVE_RATE_LIMIT", 5),
			ResolveBurst:     getIntEnv("RESOLVE_RATE_BURST", 10),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "incident_dashboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
			SeedDemo: getBoolEnv("SEED_DEMO", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Timeline: TimelineConfig{
			Timezone: getEnv("TIMELINE_TZ", "Local"),
		},
		MediaMTX: MediaMTXConfig{
			Host:         getEnv("MEDIAMTX_HOST", "localhost"),
			APIPort:      getEnv("MEDIAMTX_API_PORT", "9997"),
			PublicHost:   getEnv("MEDIAMTX_PUBLIC_HOST", "localhost"),
			HTTPPort:     getEnv("MEDIAMTX_HLS_PORT", "8888"),
			PlaybackPort: getEnv("MEDIAMTX_PLAYBACK_PORT", "9996"),
		},
	}
}

// Location resolves the timeline timezone, falling back to time.Local.
func (c TimelineConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
