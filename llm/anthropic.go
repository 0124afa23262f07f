package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(token string, model string, opts ...option.RequestOption) *AnthropicProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(token)}, opts...)

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Complete(ctx context.Context, request Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(request.MaxTokens),
		Temperature: anthropic.Float(request.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: request.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.UserMessage)),
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		slog.Error("llm: LLM back-end request failed", "provider", p.Name(), "error", err)

		return "", errors.Join(ErrLlmBackendRequestFailed, err)
	}

	slog.Debug("llm: Received LLM back-end response", "provider", p.Name(), "stop_reason", resp.StopReason)

	var content strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(text.Text)
		}
	}

	if content.Len() == 0 {
		slog.Error("llm: LLM back-end reply has no text content")

		return "", ErrNoChoices
	}

	return content.String(), nil
}
