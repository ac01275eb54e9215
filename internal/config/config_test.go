package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "OpenRouter")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("FOURSQUARE_API_KEY", "fsq-key")
	t.Setenv("LLM_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.Env != "local" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
	if cfg.LLM.Provider != ProviderOpenRouter || cfg.LLM.OpenRouterAPIKey != "or-key" {
		t.Fatalf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.LLM.OpenRouterModel != "openai/gpt-4o-mini" || cfg.LLM.OpenRouterBaseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("expected openrouter defaults, got %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 5*time.Second {
		t.Fatalf("expected llm timeout 5s, got %s", cfg.LLM.Timeout)
	}
	if cfg.Places.BaseURL != "https://api.foursquare.com/v3" || cfg.Places.Timeout != 10*time.Second {
		t.Fatalf("expected places defaults, got %+v", cfg.Places)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FOURSQUARE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("env: production\nllm:\n  provider: gemini\n  gemini_api_key: g-key\nplaces:\n  api_key: fsq-key\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "production" || cfg.LLM.Provider != ProviderGemini || cfg.LLM.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"valid openrouter": {
			cfg: Config{
				LLM:    LLMConfig{Provider: ProviderOpenRouter, OpenRouterAPIKey: "k", Timeout: time.Second},
				Places: PlacesConfig{APIKey: "k", Timeout: time.Second},
			},
		},
		"unknown provider": {
			cfg: Config{
				LLM:    LLMConfig{Provider: "claude", Timeout: time.Second},
				Places: PlacesConfig{APIKey: "k", Timeout: time.Second},
			},
			wantErr: true,
		},
		"zero timeout": {
			cfg: Config{
				LLM:    LLMConfig{Provider: ProviderGemini, GeminiAPIKey: "k"},
				Places: PlacesConfig{APIKey: "k", Timeout: time.Second},
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
