package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported language model providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// LLMConfig selects and configures the language model used to interpret queries.
type LLMConfig struct {
	Provider          string        `yaml:"provider" env:"LLM_PROVIDER" env-default:"openrouter"`
	OpenRouterAPIKey  string        `yaml:"openrouter_api_key" env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `yaml:"openrouter_base_url" env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	OpenRouterModel   string        `yaml:"openrouter_model" env:"OPENROUTER_MODEL" env-default:"openai/gpt-4o-mini"`
	GeminiAPIKey      string        `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel       string        `yaml:"gemini_model" env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
	GeminiEndpoint    string        `yaml:"gemini_endpoint" env:"GEMINI_ENDPOINT"`
	Timeout           time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"20s"`
}

// PlacesConfig points at the places search API.
type PlacesConfig struct {
	APIKey  string        `yaml:"api_key" env:"FOURSQUARE_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"FOURSQUARE_BASE_URL" env-default:"https://api.foursquare.com/v3"`
	Timeout time.Duration `yaml:"timeout" env:"SEARCH_TIMEOUT" env-default:"10s"`
}

// Config aggregates application-wide configuration values.
type Config struct {
	Env             string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	Port            string        `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	LLM             LLMConfig     `yaml:"llm"`
	Places          PlacesConfig  `yaml:"places"`
}

// Load reads configuration from CONFIG_PATH (if set) overlaid with environment variables,
// applies defaults, and validates the result.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the credentials for the selected upstreams are present.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case ProviderOpenRouter:
		if c.LLM.OpenRouterAPIKey == "" {
			errs = append(errs, errors.New("OPENROUTER_API_KEY is required for the openrouter provider"))
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider))
	}

	if c.Places.APIKey == "" {
		errs = append(errs, errors.New("FOURSQUARE_API_KEY is required"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT must be positive"))
	}
	if c.Places.Timeout <= 0 {
		errs = append(errs, errors.New("SEARCH_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
