package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Identity provider settings
	SupabaseURL     string `envconfig:"SUPABASE_URL" required:"true"`
	SupabaseAnonKey string `envconfig:"SUPABASE_ANON_KEY" required:"true"`

	// OpenRouter settings. The API key is deliberately not required:
	// a missing key surfaces as missing_api_key when generation is
	// attempted, so the rest of the API stays usable.
	OpenRouterAPIKey    string `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL   string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	OpenRouterModel     string `envconfig:"OPENROUTER_MODEL" default:"arcee-ai/trinity-large-preview:free"`
	OpenRouterTimeoutMs int    `envconfig:"OPENROUTER_TIMEOUT_MS" default:"20000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
