package llm

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/CRui5in/agentd/internal/config"
)

// Gateway is the process-wide entry point for LLM calls. It holds the active
// Registry behind an atomic pointer so calls in flight keep the registry they
// started with while a reload swaps in a new one.
type Gateway struct {
	resolver  *config.Resolver
	current   atomic.Pointer[Registry]
	mu        sync.Mutex // serializes reload
	listeners []func(*Registry)
}

// NewGateway resolves the initial provider set and builds the first registry.
func NewGateway(ctx context.Context, resolver *config.Resolver) *Gateway {
	g := &Gateway{resolver: resolver}
	g.current.Store(NewRegistry(ctx, resolver.Resolve(ctx)))
	return g
}

// Current returns the active registry (lock-free atomic read).
func (g *Gateway) Current() *Registry {
	return g.current.Load()
}

// OnReload registers a callback invoked after each successful reload.
func (g *Gateway) OnReload(fn func(*Registry)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Reload re-runs the resolution chain and swaps in a fresh registry.
func (g *Gateway) Reload(ctx context.Context) *Registry {
	g.mu.Lock()
	defer g.mu.Unlock()

	reg := NewRegistry(ctx, g.resolver.Resolve(ctx))
	g.current.Store(reg)
	slog.Info("provider registry reloaded",
		"provider", reg.Active(), "source", reg.Source())

	for _, fn := range g.listeners {
		fn(reg)
	}
	return reg
}

// Invoke sends the messages through the currently active provider.
func (g *Gateway) Invoke(ctx context.Context, msgs []Message, opts Options) (string, error) {
	return g.Current().Invoke(ctx, msgs, opts)
}

// Snapshot reports the current provider status.
func (g *Gateway) Snapshot() StatusSnapshot {
	return g.Current().Snapshot()
}
