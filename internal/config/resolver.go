package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Source records where the active provider set came from.
type Source string

const (
	SourceBackend Source = "backend"
	SourceLocal   Source = "local"
)

// ResolvedProviders is an immutable snapshot of the provider configuration
// after the remote/local resolution chain has run.
type ResolvedProviders struct {
	Default string
	Configs map[string]ProviderConfig
	Source  Source
}

// Resolver fetches LLM provider configuration from the backend's config
// service, falling back to the local config when the backend is unreachable.
// The fallback never fails: the daemon must come up in a degraded mode when
// its control plane is down, not refuse to boot.
type Resolver struct {
	backendURL string
	local      ProvidersConfig
	httpClient *http.Client
}

// NewResolver creates a resolver against the given backend base URL.
func NewResolver(backendURL string, local ProvidersConfig) *Resolver {
	return &Resolver{
		backendURL: backendURL,
		local:      local,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// remotePayload accepts both the current and the legacy field names the
// backend config service has used for the LLM settings document.
type remotePayload struct {
	CurrentProvider    string                    `json:"current_provider"`
	DefaultLLMProvider string                    `json:"default_llm_provider"`
	ProviderConfigs    map[string]ProviderConfig `json:"provider_configs"`
	LLMProviders       map[string]ProviderConfig `json:"llm_providers"`
}

// Resolve runs the resolution chain. It never returns an error for fetch
// failures; those degrade to the local provider set.
func (r *Resolver) Resolve(ctx context.Context) ResolvedProviders {
	resolved, err := r.fetchRemote(ctx)
	if err != nil {
		slog.Warn("backend config unavailable, using local providers", "error", err)
		return r.localProviders()
	}
	return resolved
}

func (r *Resolver) fetchRemote(ctx context.Context) (ResolvedProviders, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.backendURL+"/api/config/llm", nil)
	if err != nil {
		return ResolvedProviders{}, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return ResolvedProviders{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ResolvedProviders{}, fmt.Errorf("backend config returned %d", resp.StatusCode)
	}

	var payload remotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ResolvedProviders{}, fmt.Errorf("decode backend config: %w", err)
	}

	configs := payload.ProviderConfigs
	if configs == nil {
		configs = payload.LLMProviders
	}
	if configs == nil {
		configs = map[string]ProviderConfig{}
	}

	def := payload.CurrentProvider
	if def == "" {
		def = payload.DefaultLLMProvider
	}

	return ResolvedProviders{
		Default: def,
		Configs: configs,
		Source:  SourceBackend,
	}, nil
}

func (r *Resolver) localProviders() ResolvedProviders {
	configs := r.local.Configs
	if configs == nil {
		configs = map[string]ProviderConfig{}
	}
	return ResolvedProviders{
		Default: r.local.Default,
		Configs: configs,
		Source:  SourceLocal,
	}
}
