// Package llm normalizes chat-style requests across LLM providers with
// incompatible wire shapes behind one request/response contract. Callers
// always supply an ordered role/content list and always get back a plain
// string, regardless of which provider family serves the call.
package llm

import "context"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat-style request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant builds an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Options are per-call overrides. Zero values fall back to the provider
// configuration.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Client is a single provider adapter.
type Client interface {
	// Complete sends the messages and returns the reply text, trimmed.
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
