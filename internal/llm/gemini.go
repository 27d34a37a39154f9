package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/CRui5in/agentd/internal/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiClient speaks the generative-turn wire family. The protocol has no
// standalone system role, so system text is folded into the first user turn
// under a "System:" prefix, and assistant turns are sent under the model role.
type geminiClient struct {
	client   *genai.Client
	model    string
	defaults config.ProviderConfig
}

func newGeminiClient(ctx context.Context, cfg config.ProviderConfig) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  ResolveKey(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/")}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &geminiClient{client: client, model: model, defaults: cfg}, nil
}

func (c *geminiClient) Complete(ctx context.Context, msgs []Message, opts Options) (string, error) {
	var system []string
	var contents []*genai.Content
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		prefix := "System: " + strings.Join(system, "\n")
		if len(contents) > 0 && contents[0].Role == genai.RoleUser && len(contents[0].Parts) > 0 {
			contents[0].Parts[0].Text = prefix + "\n\n" + contents[0].Parts[0].Text
		} else {
			contents = append([]*genai.Content{genai.NewContentFromText(prefix, genai.RoleUser)}, contents...)
		}
	}

	gc := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(pickInt(opts.MaxTokens, c.defaults.MaxTokens, 4096)),
		Temperature:     genai.Ptr(float32(pickFloat(opts.Temperature, c.defaults.Temperature, 0.7))),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, gc)
	if err != nil {
		return "", &ProviderError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ProviderError{Provider: "gemini", Err: ErrMalformedResponse}
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return strings.TrimSpace(part.Text), nil
		}
	}
	return "", &ProviderError{Provider: "gemini", Err: ErrMalformedResponse}
}
