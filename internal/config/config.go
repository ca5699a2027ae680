package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type AuthMode string

const (
	AuthModeJWT  AuthMode = "jwt"
	AuthModeNoop AuthMode = "noop"
)

type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
	StoreMemory   StoreKind = "memory"
)

// DirectoryEntry is one active account served by the memory directory.
type DirectoryEntry struct {
	ID          string
	DisplayName string
}

type Config struct {
	ServerPort  string `validate:"required,numeric"`
	DatabaseURL string
	RedisURL    string

	AuthMode  AuthMode `validate:"oneof=jwt noop"`
	JWTSecret string
	JWTExpiry time.Duration `validate:"gt=0"`

	PresenceStore  StoreKind     `validate:"oneof=postgres redis memory"`
	DirectoryStore StoreKind     `validate:"oneof=postgres memory"`
	PresenceWindow time.Duration `validate:"gt=0"`
	SweepInterval  time.Duration `validate:"gte=0"`

	// DirectorySeed populates the memory directory, from DIRECTORY_SEED="id:Name,id:Name".
	DirectorySeed []DirectoryEntry

	AllowedOrigins []string
}

var validate = validator.New()

func LoadConfig() (*Config, error) {
	jwtExpiry, err := parseDuration("JWT_EXPIRY", "24h")
	if err != nil {
		return nil, err
	}
	window, err := parseDuration("PRESENCE_WINDOW", "2m")
	if err != nil {
		return nil, err
	}
	sweepInterval, err := parseDuration("PRESENCE_SWEEP_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	seed, err := parseDirectorySeed(os.Getenv("DIRECTORY_SEED"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AuthMode:       AuthMode(strings.ToLower(getEnv("AUTH_MODE", string(AuthModeJWT)))),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      jwtExpiry,
		PresenceStore:  StoreKind(strings.ToLower(getEnv("PRESENCE_STORE", string(StorePostgres)))),
		DirectoryStore: StoreKind(strings.ToLower(getEnv("DIRECTORY_STORE", string(StorePostgres)))),
		PresenceWindow: window,
		SweepInterval:  sweepInterval,
		DirectorySeed:  seed,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field tags, then the requirements that depend on the chosen backends.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if (c.PresenceStore == StorePostgres || c.DirectoryStore == StorePostgres) && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required when a postgres store is selected")
	}
	if c.DirectoryStore == StoreMemory && len(c.DirectorySeed) == 0 {
		return errors.New("DIRECTORY_SEED is required when DIRECTORY_STORE=memory")
	}
	if c.PresenceStore == StoreRedis && c.RedisURL == "" {
		return errors.New("REDIS_URL is required when PRESENCE_STORE=redis")
	}
	if c.AuthMode == AuthModeJWT && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
// Sessions live in Redis whenever it is configured.
func (c *Config) UsesRedis() bool {
	return c.PresenceStore == StoreRedis || c.RedisURL != ""
}

func (c *Config) UsesPostgres() bool {
	return c.PresenceStore == StorePostgres || c.DirectoryStore == StorePostgres
}

func parseDuration(key, fallback string) (time.Duration, error) {
	value := getEnv(key, fallback)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return d, nil
}

// parseDirectorySeed reads comma-separated "id:Display Name" pairs.
// The display name defaults to the id when omitted.
func parseDirectorySeed(raw string) ([]DirectoryEntry, error) {
	var entries []DirectoryEntry
	seen := make(map[string]bool)
	for _, item := range splitList(raw) {
		id, name, _ := strings.Cut(item, ":")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if id == "" {
			return nil, fmt.Errorf("invalid DIRECTORY_SEED entry %q: missing id", item)
		}
		if seen[id] {
			return nil, fmt.Errorf("invalid DIRECTORY_SEED entry %q: duplicate id", item)
		}
		seen[id] = true
		if name == "" {
			name = id
		}
		entries = append(entries, DirectoryEntry{ID: id, DisplayName: name})
	}
	return entries, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
