package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config file. When the file does not exist the
// configuration is built from environment variables instead, so the daemon
// can boot on a box that only carries an .env file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("config file not found, loading from environment", "path", path)
			cfg := FromEnv()
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// FromEnv builds a provider configuration from environment variables. The
// variable names match what the backend's settings UI writes to .env.
func FromEnv() *Config {
	cfg := &Config{
		Providers: ProvidersConfig{
			Default: envOr("DEFAULT_LLM_PROVIDER", "openai"),
			Configs: map[string]ProviderConfig{
				"openai": {
					APIKey:      os.Getenv("OPENAI_API_KEY"),
					Model:       envOr("OPENAI_MODEL", "gpt-4"),
					BaseURL:     os.Getenv("OPENAI_BASE_URL"),
					Temperature: envFloat("OPENAI_TEMPERATURE", 0.7),
					MaxTokens:   envInt("OPENAI_MAX_TOKENS", 4000),
				},
				"anthropic": {
					APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
					Model:       envOr("ANTHROPIC_MODEL", "claude-3-sonnet-20240229"),
					Temperature: envFloat("ANTHROPIC_TEMPERATURE", 0.7),
					MaxTokens:   envInt("ANTHROPIC_MAX_TOKENS", 4000),
				},
				"gemini": {
					APIKey:      os.Getenv("GOOGLE_API_KEY"),
					Model:       envOr("GEMINI_MODEL", "gemini-1.5-pro"),
					Temperature: envFloat("GEMINI_TEMPERATURE", 0.7),
					MaxTokens:   envInt("GEMINI_MAX_TOKENS", 4000),
				},
				"deepseek": {
					APIKey:      os.Getenv("DEEPSEEK_API_KEY"),
					Model:       envOr("DEEPSEEK_MODEL", "deepseek-chat"),
					BaseURL:     envOr("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
					Temperature: envFloat("DEEPSEEK_TEMPERATURE", 0.7),
					MaxTokens:   envInt("DEEPSEEK_MAX_TOKENS", 4000),
				},
				"azure": {
					APIKey:         os.Getenv("AZURE_OPENAI_API_KEY"),
					Endpoint:       os.Getenv("AZURE_OPENAI_ENDPOINT"),
					APIVersion:     envOr("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
					DeploymentName: envOr("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4"),
					Temperature:    envFloat("AZURE_TEMPERATURE", 0.7),
					MaxTokens:      envInt("AZURE_MAX_TOKENS", 4000),
				},
				"ollama": {
					BaseURL:     envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
					Model:       envOr("OLLAMA_MODEL", "llama2"),
					Temperature: envFloat("OLLAMA_TEMPERATURE", 0.7),
					MaxTokens:   envInt("OLLAMA_MAX_TOKENS", 4000),
				},
			},
		},
	}

	cfg.Server.Host = envOr("AGENT_HOST", "")
	cfg.Server.Port = envInt("AGENT_PORT", 0)
	cfg.Backend.URL = envOr("BACKEND_URL", "")
	return cfg
}

// applyDefaults fills in zero-value fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = "http://localhost:8000"
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 1024
	}
	if cfg.Providers.Configs == nil {
		cfg.Providers.Configs = map[string]ProviderConfig{}
	}
	if cfg.Services == nil {
		cfg.Services = map[string]ServiceConfig{
			"ppt_generator":     {Host: "localhost", Port: 8002, Enabled: true},
			"chart_generator":   {Host: "localhost", Port: 8003, Enabled: true},
			"schedule_reminder": {Host: "localhost", Port: 8004, Enabled: true},
			"api_doc_generator": {Host: "localhost", Port: 8005, Enabled: true},
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
