package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the remote service credentials for knowledge-sync.
// Values come from a JSON config file, overlaid by recognized
// environment variables (env wins over file).
type Config struct {
	// Base URL of the remote service, e.g. "https://webui.example.com".
	// A schemeless value gets an https:// prefix.
	BaseURL string `json:"base_url" env:"OWUI_BASE_URL"`

	// API key and JWT token for the remote service. The JWT is sent as
	// a bearer token on every request.
	APIKey   string `json:"api_key" env:"OWUI_API_KEY"`
	JWTToken string `json:"jwt_token" env:"OWUI_JWT_TOKEN"`

	// Optional Cloudflare Access service-token credentials, used when a
	// secondary access gateway sits in front of the service.
	CFClientID     string `json:"cf_client_id,omitempty" env:"CF_ACCESS_CLIENT_ID"`
	CFClientSecret string `json:"cf_client_secret,omitempty" env:"CF_ACCESS_CLIENT_SECRET"`

	// Environment controls log format. Not part of the config file.
	Environment string `json:"-" env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from the given JSON file, then overlays
// environment variables. A .env file is loaded first if present.
// The config file may be absent only if the environment provides
// everything required.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Fall through to the env overlay.
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required (config file or OWUI_BASE_URL)")
	}

	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		c.BaseURL = "https://" + c.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.JWTToken == "" {
		return fmt.Errorf("jwt_token is required (config file or OWUI_JWT_TOKEN)")
	}

	// Both Cloudflare credentials or neither.
	if (c.CFClientID == "") != (c.CFClientSecret == "") {
		return fmt.Errorf("cf_client_id and cf_client_secret must be set together")
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
