package llm

import (
	"os"
	"strings"

	"github.com/CRui5in/agentd/internal/config"
)

// ResolveKey resolves a credential value: "${VAR}" reads the environment,
// anything else is used verbatim after trimming.
func ResolveKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "${") && strings.HasSuffix(trimmed, "}") {
		return os.Getenv(trimmed[2 : len(trimmed)-1])
	}
	return trimmed
}

// isPlaceholder reports whether a key is one of the template values shipped
// in the sample config ("your_openai_api_key_here" and friends).
func isPlaceholder(key string) bool {
	return strings.HasPrefix(key, "your_") && strings.HasSuffix(key, "_here")
}

// Configured reports whether the provider has usable credentials: a key that
// is non-empty after trimming and not a placeholder. Ollama has no key; it is
// configured when a base URL is set. Azure additionally needs its endpoint.
func Configured(name string, cfg config.ProviderConfig) bool {
	switch name {
	case "ollama":
		return strings.TrimSpace(cfg.BaseURL) != ""
	case "azure":
		key := ResolveKey(cfg.APIKey)
		return key != "" && !isPlaceholder(key) && strings.TrimSpace(cfg.Endpoint) != ""
	default:
		key := ResolveKey(cfg.APIKey)
		return key != "" && !isPlaceholder(key)
	}
}
