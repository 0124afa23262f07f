package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider connects to the OpenAI API or any compatible endpoint when baseUrl is set.
func NewOpenAIProvider(baseUrl string, token string, model string) *OpenAIProvider {
	config := openai.DefaultConfig(token)
	if baseUrl != "" {
		config.BaseURL = baseUrl
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, request Request) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: request.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: request.UserMessage,
			},
		},
		MaxTokens:   request.MaxTokens,
		Temperature: float32(request.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("llm: LLM back-end request failed", "provider", p.Name(), "error", err)

		return "", errors.Join(ErrLlmBackendRequestFailed, err)
	}

	slog.Debug("llm: Received LLM back-end response", "provider", p.Name(), "usage", resp.Usage)

	if len(resp.Choices) < 1 {
		slog.Error("llm: LLM back-end reply has no choices")

		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
