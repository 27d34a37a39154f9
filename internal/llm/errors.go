package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnconfigured is returned when no usable provider is active.
	ErrProviderUnconfigured = errors.New("LLM provider not configured: set provider credentials in the system settings or local config")

	// ErrUnsupportedProvider is returned for provider names with no adapter.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")

	// ErrMalformedResponse is returned when a provider reply carries no
	// usable text content.
	ErrMalformedResponse = errors.New("malformed LLM response")
)

// ProviderError wraps an upstream provider failure with the provider name.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
