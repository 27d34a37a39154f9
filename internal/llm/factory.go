package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/CRui5in/agentd/internal/config"
)

// NewClient creates a provider adapter for the named provider. The name is
// the closed set of supported providers; anything else is
// ErrUnsupportedProvider.
func NewClient(ctx context.Context, name string, cfg config.ProviderConfig) (Client, error) {
	switch strings.ToLower(name) {
	case "openai", "gpt", "deepseek", "azure", "ollama":
		return newOpenAIClient(strings.ToLower(name), cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	case "gemini":
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
}
