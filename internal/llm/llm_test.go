package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CRui5in/agentd/internal/config"
)

func TestConfigured(t *testing.T) {
	if Configured("openai", config.ProviderConfig{APIKey: ""}) {
		t.Fatal("empty key should not be configured")
	}
	if Configured("openai", config.ProviderConfig{APIKey: "   "}) {
		t.Fatal("whitespace key should not be configured")
	}
	if Configured("openai", config.ProviderConfig{APIKey: "your_openai_api_key_here"}) {
		t.Fatal("placeholder key should not be configured")
	}
	if !Configured("openai", config.ProviderConfig{APIKey: "sk-test"}) {
		t.Fatal("real key should be configured")
	}
	if !Configured("ollama", config.ProviderConfig{BaseURL: "http://localhost:11434"}) {
		t.Fatal("ollama with base URL should be configured")
	}
	if Configured("ollama", config.ProviderConfig{}) {
		t.Fatal("ollama without base URL should not be configured")
	}
	if Configured("azure", config.ProviderConfig{APIKey: "key"}) {
		t.Fatal("azure without endpoint should not be configured")
	}
	if !Configured("azure", config.ProviderConfig{APIKey: "key", Endpoint: "https://x.openai.azure.com"}) {
		t.Fatal("azure with key and endpoint should be configured")
	}
}

func TestResolveKeyEnvExpansion(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "sk-from-env")
	if got := ResolveKey("${TEST_LLM_KEY}"); got != "sk-from-env" {
		t.Fatalf("expected env value, got %q", got)
	}
	if got := ResolveKey("  sk-literal  "); got != "sk-literal" {
		t.Fatalf("expected trimmed literal, got %q", got)
	}
}

func TestNewClientUnsupported(t *testing.T) {
	_, err := NewClient(context.Background(), "mistral", config.ProviderConfig{APIKey: "k"})
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestOpenAIComplete(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"  OK  "}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "openai", config.ProviderConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := client.Complete(context.Background(), []Message{
		System("be terse"),
		User("hello"),
	}, Options{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "OK" {
		t.Fatalf("expected trimmed OK, got %q", got)
	}

	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 wire messages, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("expected leading system role, got %v", first["role"])
	}
}

func TestAnthropicCompleteHoistsSystem(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-0","content":[{"type":"text","text":"OK"}],"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "anthropic", config.ProviderConfig{
		APIKey:  "sk-ant",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := client.Complete(context.Background(), []Message{
		System("be terse"),
		User("hello"),
		Assistant("hi"),
		User("again"),
	}, Options{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "OK" {
		t.Fatalf("expected OK, got %q", got)
	}

	if captured["system"] == nil {
		t.Fatal("system text was not hoisted to the top-level field")
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 turns after hoisting, got %d", len(msgs))
	}
	for _, m := range msgs {
		turn, _ := m.(map[string]any)
		if turn["role"] == "system" {
			t.Fatal("system role leaked into the turn list")
		}
	}
}

func TestGeminiCompleteFoldsSystem(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"OK"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "gemini", config.ProviderConfig{
		APIKey:  "g-key",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := client.Complete(context.Background(), []Message{
		System("be terse"),
		User("hello"),
		Assistant("hi"),
	}, Options{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "OK" {
		t.Fatalf("expected OK, got %q", got)
	}

	contents, _ := captured["contents"].([]any)
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents after folding, got %d", len(contents))
	}
	first, _ := contents[0].(map[string]any)
	parts, _ := first["parts"].([]any)
	part, _ := parts[0].(map[string]any)
	text, _ := part["text"].(string)
	if !strings.HasPrefix(text, "System: be terse") {
		t.Fatalf("system not folded into first user turn: %q", text)
	}
	second, _ := contents[1].(map[string]any)
	if second["role"] != "model" {
		t.Fatalf("assistant turn should be role model, got %v", second["role"])
	}
}

func TestRegistrySelection(t *testing.T) {
	resolved := config.ResolvedProviders{
		Default: "anthropic",
		Configs: map[string]config.ProviderConfig{
			"anthropic": {APIKey: "your_anthropic_api_key_here"},
			"openai":    {APIKey: "sk-real"},
			"deepseek":  {APIKey: "sk-ds"},
		},
		Source: config.SourceLocal,
	}
	reg := NewRegistry(context.Background(), resolved)

	// Default is a placeholder, fallback is first configured in sorted order.
	if reg.Active() != "deepseek" {
		t.Fatalf("expected deepseek fallback, got %q", reg.Active())
	}
	snap := reg.Snapshot()
	if snap.Configured["anthropic"] {
		t.Fatal("placeholder key reported as configured")
	}
	if !snap.Configured["openai"] {
		t.Fatal("openai should be configured")
	}
	if snap.Source != "local" {
		t.Fatalf("expected local source, got %q", snap.Source)
	}
}

func TestRegistryInvokeUnconfigured(t *testing.T) {
	reg := NewRegistry(context.Background(), config.ResolvedProviders{
		Configs: map[string]config.ProviderConfig{
			"openai": {APIKey: ""},
		},
		Source: config.SourceLocal,
	})
	_, err := reg.Invoke(context.Background(), []Message{User("hi")}, Options{})
	if !errors.Is(err, ErrProviderUnconfigured) {
		t.Fatalf("expected ErrProviderUnconfigured, got %v", err)
	}
}

func TestGatewayReload(t *testing.T) {
	payload := `{"current_provider":"openai","provider_configs":{"openai":{"api_key":"sk-1","model":"gpt-4o"}}}`
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config/llm" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer backend.Close()

	resolver := config.NewResolver(backend.URL, config.ProvidersConfig{})
	gw := NewGateway(context.Background(), resolver)
	if gw.Current().Active() != "openai" {
		t.Fatalf("expected openai active, got %q", gw.Current().Active())
	}

	var notified *Registry
	gw.OnReload(func(r *Registry) { notified = r })

	payload = `{"current_provider":"deepseek","provider_configs":{"deepseek":{"api_key":"sk-2","model":"deepseek-chat"}}}`
	gw.Reload(context.Background())

	if gw.Current().Active() != "deepseek" {
		t.Fatalf("expected deepseek after reload, got %q", gw.Current().Active())
	}
	if notified == nil || notified.Active() != "deepseek" {
		t.Fatal("reload listener was not notified with the new registry")
	}
}

func TestResolverFallsBackToLocal(t *testing.T) {
	resolver := config.NewResolver("http://127.0.0.1:1", config.ProvidersConfig{
		Default: "openai",
		Configs: map[string]config.ProviderConfig{
			"openai": {APIKey: "sk-local"},
		},
	})
	resolved := resolver.Resolve(context.Background())
	if resolved.Source != config.SourceLocal {
		t.Fatalf("expected local source, got %q", resolved.Source)
	}
	if resolved.Default != "openai" {
		t.Fatalf("expected local default, got %q", resolved.Default)
	}
}
