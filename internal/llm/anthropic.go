package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/CRui5in/agentd/internal/config"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-0"
	defaultAnthropicMaxTokens = 4096
)

// anthropicClient speaks the structured-turn wire family: system text is
// hoisted out of the turn list into a dedicated top-level field.
type anthropicClient struct {
	client   anthropic.Client
	model    string
	defaults config.ProviderConfig
}

func newAnthropicClient(cfg config.ProviderConfig) (*anthropicClient, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(ResolveKey(cfg.APIKey)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if cfg.Timeout.Duration() > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout.Duration()))
	} else {
		opts = append(opts, option.WithRequestTimeout(60*time.Second))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &anthropicClient{
		client:   anthropic.NewClient(opts...),
		model:    model,
		defaults: cfg,
	}, nil
}

func (c *anthropicClient) Complete(ctx context.Context, msgs []Message, opts Options) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(pickInt(opts.MaxTokens, c.defaults.MaxTokens, defaultAnthropicMaxTokens)),
	}
	params.Temperature = param.NewOpt(pickFloat(opts.Temperature, c.defaults.Temperature, 0.7))

	var turns []anthropic.MessageParam
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	params.Messages = turns

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &ProviderError{Provider: "anthropic", Err: err}
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", &ProviderError{Provider: "anthropic", Err: ErrMalformedResponse}
}
