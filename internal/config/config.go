package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port        string
	LogLevel    slog.Level
	CatalogPath string

	Session  SessionConfig
	FollowUp FollowUpConfig

	DatabaseURL     string
	SupabaseURL     string
	SupabaseAnonKey string
}

// SessionConfig selects and tunes the session store.
type SessionConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Dir           string
	TTL           time.Duration
	MaxIdle       time.Duration
	SweepInterval time.Duration

	// EncryptionKey seals sessions at rest when set (base64, 32 bytes).
	EncryptionKey string
	// FallbackKeys are previous keys still accepted for reading.
	FallbackKeys []string
}

// FollowUpConfig configures the completion service.
type FollowUpConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := firstNonEmpty(strings.TrimSpace(os.Getenv("PORT")), "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &Config{
		Port:        port,
		LogLevel:    ParseLevel(os.Getenv("LOG_LEVEL")),
		CatalogPath: strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		Session: SessionConfig{
			Backend:       strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("SESSION_BACKEND")), BackendMemory)),
			RedisAddr:     firstNonEmpty(strings.TrimSpace(os.Getenv("REDIS_ADDR")), "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       envInt("REDIS_DB", 0),
			Dir:           strings.TrimSpace(os.Getenv("SESSION_DIR")),
			TTL:           envDuration("SESSION_TTL", 0),
			MaxIdle:       envDuration("SESSION_MAX_IDLE", 2*time.Hour),
			SweepInterval: envDuration("SWEEP_INTERVAL", 10*time.Minute),
			EncryptionKey: strings.TrimSpace(os.Getenv("SESSION_ENCRYPTION_KEY")),
			FallbackKeys:  envList("SESSION_ENCRYPTION_FALLBACK_KEYS"),
		},
		FollowUp: FollowUpConfig{
			APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:     strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			Model:       strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
			MaxTokens:   envInt("FOLLOWUP_MAX_TOKENS", 300),
			Temperature: float32(envFloat("FOLLOWUP_TEMPERATURE", 0.2)),
		},
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SupabaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		SupabaseAnonKey: strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY")),
	}, nil
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return v
}

func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
