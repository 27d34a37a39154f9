package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/CRui5in/agentd/internal/config"
)

// openAIClient speaks the chat-completion wire family. It covers openai
// itself plus the compatible providers (deepseek, azure, ollama, and any
// custom base_url endpoint).
type openAIClient struct {
	provider string
	client   openai.Client
	model    string
	defaults config.ProviderConfig
}

func newOpenAIClient(provider string, cfg config.ProviderConfig) (*openAIClient, error) {
	opts := []option.RequestOption{}

	switch provider {
	case "azure":
		endpoint := strings.TrimSpace(cfg.Endpoint)
		if endpoint == "" {
			return nil, fmt.Errorf("%w: azure requires an endpoint", ErrProviderUnconfigured)
		}
		apiVersion := cfg.APIVersion
		if apiVersion == "" {
			apiVersion = "2024-02-01"
		}
		opts = append(opts,
			azure.WithEndpoint(endpoint, apiVersion),
			azure.WithAPIKey(ResolveKey(cfg.APIKey)),
		)
	case "ollama":
		base := strings.TrimRight(cfg.BaseURL, "/")
		if !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		// Ollama ignores the key but the SDK insists on one.
		opts = append(opts,
			option.WithBaseURL(base),
			option.WithAPIKey("ollama"),
		)
	default:
		opts = append(opts, option.WithAPIKey(ResolveKey(cfg.APIKey)))
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
		}
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout.Duration()))
	} else {
		opts = append(opts, option.WithRequestTimeout(60*time.Second))
	}

	model := cfg.Model
	if provider == "azure" && cfg.DeploymentName != "" {
		model = cfg.DeploymentName
	}
	if model == "" {
		model = defaultModel(provider)
	}

	return &openAIClient{
		provider: provider,
		client:   openai.NewClient(opts...),
		model:    model,
		defaults: cfg,
	}, nil
}

func defaultModel(provider string) string {
	switch provider {
	case "deepseek":
		return "deepseek-chat"
	case "ollama":
		return "llama3"
	default:
		return "gpt-4o"
	}
}

func (c *openAIClient) Complete(ctx context.Context, msgs []Message, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)),
	}
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	params.MaxTokens = openai.Int(int64(pickInt(opts.MaxTokens, c.defaults.MaxTokens, 4096)))
	params.Temperature = openai.Float(pickFloat(opts.Temperature, c.defaults.Temperature, 0.7))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &ProviderError{Provider: c.provider, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: c.provider, Err: ErrMalformedResponse}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func pickInt(v, fallback, def int) int {
	if v > 0 {
		return v
	}
	if fallback > 0 {
		return fallback
	}
	return def
}

func pickFloat(v, fallback, def float64) float64 {
	if v > 0 {
		return v
	}
	if fallback > 0 {
		return fallback
	}
	return def
}
