// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Catalog backends.
const (
	CatalogSpotify = "spotify"
	CatalogLastFM  = "lastfm"
	CatalogStatic  = "static"
)

// Reflection backends.
const (
	ReflectionGemini   = "gemini"
	ReflectionOllama   = "ollama"
	ReflectionTemplate = "template"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

var (
	// ErrInvalidConfig is returned for unknown backend names or bad values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingCredentials is returned when a selected backend has no credentials.
	ErrMissingCredentials = errors.New("missing credentials")
)

// Config holds all runtime settings.
type Config struct {
	// Server
	Env            string
	Addr           string
	AllowedOrigins []string

	// Storage
	DatabaseURL string
	RedisURL    string

	// Catalog
	Catalog       string
	SpotifyID     string
	SpotifySecret string
	SpotifyMarket string
	LastFMAPIKey  string
	PageSize      int

	// Reflection
	Reflection   string
	GeminiAPIKey string
	GeminiModel  string
	OllamaHost   string
	OllamaModel  string
}

// Load reads the environment and validates backend selections.
func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Addr:           getEnv("ADDR", DefaultAddr),
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SpotifyID:     getEnv("SPOTIFY_ID", ""),
		SpotifySecret: getEnv("SPOTIFY_SECRET", ""),
		SpotifyMarket: getEnv("SPOTIFY_MARKET", "US"),
		LastFMAPIKey:  getEnv("LASTFM_API_KEY", ""),
		PageSize:      getEnvAsInt("RECOMMENDATION_PAGE_SIZE", 20),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		OllamaHost:   getEnv("OLLAMA_HOST", ""),
		OllamaModel:  getEnv("OLLAMA_MODEL", ""),
	}
	cfg.Catalog = strings.ToLower(getEnv("CATALOG", cfg.defaultCatalog()))
	cfg.Reflection = strings.ToLower(getEnv("REFLECTION", cfg.defaultReflection()))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) defaultCatalog() string {
	switch {
	case c.SpotifyID != "" && c.SpotifySecret != "":
		return CatalogSpotify
	case c.LastFMAPIKey != "":
		return CatalogLastFM
	default:
		return CatalogStatic
	}
}

func (c *Config) defaultReflection() string {
	switch {
	case c.GeminiAPIKey != "":
		return ReflectionGemini
	case c.OllamaHost != "":
		return ReflectionOllama
	default:
		return ReflectionTemplate
	}
}

func (c *Config) validate() error {
	switch c.Catalog {
	case CatalogSpotify:
		if c.SpotifyID == "" || c.SpotifySecret == "" {
			return fmt.Errorf("catalog %q needs SPOTIFY_ID and SPOTIFY_SECRET: %w", c.Catalog, ErrMissingCredentials)
		}
	case CatalogLastFM:
		if c.LastFMAPIKey == "" {
			return fmt.Errorf("catalog %q needs LASTFM_API_KEY: %w", c.Catalog, ErrMissingCredentials)
		}
	case CatalogStatic:
	default:
		return fmt.Errorf("unknown CATALOG %q: %w", c.Catalog, ErrInvalidConfig)
	}

	switch c.Reflection {
	case ReflectionGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("reflection %q needs GEMINI_API_KEY: %w", c.Reflection, ErrMissingCredentials)
		}
	case ReflectionOllama, ReflectionTemplate:
	default:
		return fmt.Errorf("unknown REFLECTION %q: %w", c.Reflection, ErrInvalidConfig)
	}

	if c.PageSize < 1 {
		return fmt.Errorf("RECOMMENDATION_PAGE_SIZE must be positive, got %d: %w", c.PageSize, ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
