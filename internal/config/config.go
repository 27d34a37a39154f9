package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the agentd daemon.
type Config struct {
	Server    ServerConfig             `yaml:"server"`
	Backend   BackendConfig            `yaml:"backend"`
	Providers ProvidersConfig          `yaml:"providers"`
	Services  map[string]ServiceConfig `yaml:"tool_services"`
	Events    EventsConfig             `yaml:"events"`
	Refresh   string                   `yaml:"refresh,omitempty"` // cron expression for periodic provider refresh
}

// ServerConfig holds the gateway listen settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig points at the external task store / config service.
type BackendConfig struct {
	URL string `yaml:"url"`
}

// ProvidersConfig holds the local LLM provider set and the declared default.
type ProvidersConfig struct {
	Default string                    `yaml:"default"`
	Configs map[string]ProviderConfig `yaml:"configs"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	APIKey      string   `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	Model       string   `yaml:"model,omitempty" json:"model,omitempty"`
	BaseURL     string   `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Temperature float64  `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Timeout     Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Azure extras.
	Endpoint       string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	DeploymentName string `yaml:"deployment_name,omitempty" json:"deployment_name,omitempty"`
	APIVersion     string `yaml:"api_version,omitempty" json:"api_version,omitempty"`
}

// ServiceConfig is one downstream tool service entry.
type ServiceConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

// URL returns the base URL for the service.
func (s ServiceConfig) URL() string {
	host := s.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, s.Port)
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// Duration wraps time.Duration for YAML/JSON unmarshaling from strings like "30s".
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
