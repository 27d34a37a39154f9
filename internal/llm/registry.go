package llm

import (
	"context"
	"log/slog"
	"sort"

	"github.com/CRui5in/agentd/internal/config"
)

// Registry is an immutable view of the resolved provider set with one
// constructed client per configured provider. Reloads build a new Registry
// rather than mutating an existing one.
type Registry struct {
	clients    map[string]Client
	configs    map[string]config.ProviderConfig
	configured map[string]bool
	active     string
	source     config.Source
}

// StatusSnapshot is the wire shape of the provider status report.
type StatusSnapshot struct {
	Provider   string          `json:"provider"`
	Model      string          `json:"model,omitempty"`
	Configured map[string]bool `json:"configured"`
	Source     string          `json:"source"`
}

// NewRegistry builds a registry from resolved providers. Unconfigured
// providers are recorded but get no client; construction failures are
// logged and treated as unconfigured.
func NewRegistry(ctx context.Context, resolved config.ResolvedProviders) *Registry {
	r := &Registry{
		clients:    make(map[string]Client),
		configs:    make(map[string]config.ProviderConfig),
		configured: make(map[string]bool),
		source:     resolved.Source,
	}

	for name, cfg := range resolved.Configs {
		r.configs[name] = cfg
		if !Configured(name, cfg) {
			r.configured[name] = false
			continue
		}
		client, err := NewClient(ctx, name, cfg)
		if err != nil {
			slog.Warn("provider client construction failed", "provider", name, "error", err)
			r.configured[name] = false
			continue
		}
		r.clients[name] = client
		r.configured[name] = true
	}

	if _, ok := r.clients[resolved.Default]; ok {
		r.active = resolved.Default
	} else {
		names := make([]string, 0, len(r.clients))
		for name := range r.clients {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) > 0 {
			r.active = names[0]
			if resolved.Default != "" {
				slog.Warn("default provider unavailable, falling back",
					"default", resolved.Default, "active", r.active)
			}
		}
	}

	return r
}

// Active returns the active provider name, empty when none is usable.
func (r *Registry) Active() string { return r.active }

// Source reports where the provider set came from.
func (r *Registry) Source() config.Source { return r.source }

// Invoke sends the messages through the active provider.
func (r *Registry) Invoke(ctx context.Context, msgs []Message, opts Options) (string, error) {
	if r.active == "" {
		return "", ErrProviderUnconfigured
	}
	return r.clients[r.active].Complete(ctx, msgs, opts)
}

// Snapshot reports the current provider selection for the status endpoint.
func (r *Registry) Snapshot() StatusSnapshot {
	snap := StatusSnapshot{
		Provider:   r.active,
		Configured: make(map[string]bool, len(r.configured)),
		Source:     string(r.source),
	}
	for name, ok := range r.configured {
		snap.Configured[name] = ok
	}
	if r.active != "" {
		snap.Model = r.configs[r.active].Model
	}
	return snap
}
