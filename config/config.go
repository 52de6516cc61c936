// Package config loads the application configuration from environment
// variables, an optional .env file, and an optional YAML file. Environment
// variables win over the YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Addr        string        `yaml:"addr"`
	DBPath      string        `yaml:"db_path"`
	Currency    string        `yaml:"currency"`
	PriceAPIURL string        `yaml:"price_api_url"`
	QuoteTTL    time.Duration `yaml:"quote_ttl"`
	SearchTTL   time.Duration `yaml:"search_ttl"`
	// Tokens maps API bearer tokens to user ids, for the dev session
	// resolver.
	Tokens map[string]string `yaml:"tokens"`
	Debug  bool              `yaml:"debug"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Addr:        ":8080",
		DBPath:      "tracker.db",
		Currency:    "USD",
		PriceAPIURL: "https://api.coingecko.com/api/v3/simple",
		QuoteTTL:    5 * time.Minute,
		SearchTTL:   24 * time.Hour,
		Tokens:      map[string]string{},
	}
}

// Load builds the configuration: defaults, then the YAML file at yamlPath
// (if non-empty), then environment variables. A .env file in the current
// directory is loaded first if present.
func Load(yamlPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %q: %w", yamlPath, err)
		}
	}

	stringEnv(&cfg.Addr, "PFT_ADDR")
	stringEnv(&cfg.DBPath, "PFT_DB_PATH")
	stringEnv(&cfg.Currency, "PFT_CURRENCY")
	stringEnv(&cfg.PriceAPIURL, "PFT_PRICE_API_URL")
	if err := durationEnv(&cfg.QuoteTTL, "PFT_QUOTE_TTL"); err != nil {
		return cfg, err
	}
	if err := durationEnv(&cfg.SearchTTL, "PFT_SEARCH_TTL"); err != nil {
		return cfg, err
	}
	if v := os.Getenv("PFT_API_TOKENS"); v != "" {
		tokens, err := parseTokens(v)
		if err != nil {
			return cfg, err
		}
		cfg.Tokens = tokens
	}
	if os.Getenv("PFT_DEBUG") == "true" {
		cfg.Debug = true
	}
	return cfg, nil
}

func stringEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func durationEnv(dst *time.Duration, name string) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}

// parseTokens parses "token=user,token=user" pairs.
func parseTokens(v string) (map[string]string, error) {
	tokens := map[string]string{}
	for _, pair := range strings.Split(v, ",") {
		token, user, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("invalid PFT_API_TOKENS entry %q, want token=user", pair)
		}
		tokens[token] = user
	}
	return tokens, nil
}
