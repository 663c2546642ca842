package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// Operator credentials. Exactly one operator account exists; both values
	// must come from the environment, there are no embedded defaults.
	OperatorUsername string
	OperatorPassword string

	// SessionExpiry bounds how long an authenticated cookie session lives.
	SessionExpiry time.Duration

	WeatherAPIKey   string
	WeatherLocation string

	// WeatherCacheTTL is the validity window for a cached timeline response.
	WeatherCacheTTL time.Duration

	// HTTPTimeout applies to outbound provider calls.
	HTTPTimeout time.Duration

	// JanitorInterval controls how often expired cache entries are evicted.
	JanitorInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.OperatorUsername = os.Getenv("OPERATOR_USERNAME")
	cfg.OperatorPassword = os.Getenv("OPERATOR_PASSWORD")
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.WeatherLocation = getenvDefault("WEATHER_LOCATION", "Hyderabad, India")

	var err error
	cfg.SessionExpiry, err = getenvDuration("SESSION_EXPIRY", "12h")
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRY: %w", err)
	}

	cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_CACHE_TTL: %w", err)
	}

	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg.JanitorInterval, err = getenvDuration("CACHE_JANITOR_INTERVAL", "15m")
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_JANITOR_INTERVAL: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations missing required secrets. Credentials and
// the provider API key intentionally have no fallback values.
func (c *AppConfig) Validate() error {
	if c.OperatorUsername == "" {
		return fmt.Errorf("OPERATOR_USERNAME is required")
	}
	if c.OperatorPassword == "" {
		return fmt.Errorf("OPERATOR_PASSWORD is required")
	}
	if c.WeatherAPIKey == "" {
		return fmt.Errorf("WEATHER_API_KEY is required")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
