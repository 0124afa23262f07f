package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"mihaaru-translate-bot/config"
)

var (
	ErrEmptyInput              = errors.New("nothing to translate")
	ErrTranslationFailed       = errors.New("translation failed")
	ErrLlmBackendRequestFailed = errors.New("llm back-end request failed")
	ErrNoChoices               = errors.New("no choices in LLM response")
	ErrUnknownProvider         = errors.New("unknown translation provider")
)

// Role selects the prompt and output budget of a translation.
type Role int

const (
	RoleBody Role = iota
	RoleTitle
)

func (r Role) String() string {
	if r == RoleTitle {
		return "title"
	}
	return "body"
}

const (
	titleMaxTokens = 1000
	bodyMaxTokens  = 3000
	temperature    = 0.3
)

func (r Role) maxTokens() int {
	if r == RoleTitle {
		return titleMaxTokens
	}
	return bodyMaxTokens
}

// Request is a single completion call, independent of the provider wire format.
type Request struct {
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	Temperature  float64
}

// Provider is a chat completion back-end.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the provider selected in the configuration.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI.APIBaseURL, cfg.OpenAI.APIToken, cfg.OpenAI.Model), nil
	case config.ProviderAnthropic:
		return NewAnthropicProvider(cfg.Anthropic.APIToken, cfg.Anthropic.Model), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

type Translator struct {
	provider  Provider
	templates *TemplateProcessor
	timeout   time.Duration
}

// NewTranslator wraps a provider. A zero timeout leaves provider calls unbounded.
func NewTranslator(provider Provider, templates *TemplateProcessor, timeout time.Duration) *Translator {
	return &Translator{
		provider:  provider,
		templates: templates,
		timeout:   timeout,
	}
}

// Translate returns the translated text. Empty input fails with ErrEmptyInput without
// calling the provider; any provider problem fails with ErrTranslationFailed.
func (t *Translator) Translate(ctx context.Context, text string, role Role) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	systemPrompt, err := t.templates.SystemPrompt(role)
	if err != nil {
		slog.Error("llm: Cannot render system prompt", "role", role, "error", err)
		sentry.CaptureException(err)

		return "", errors.Join(ErrTranslationFailed, err)
	}

	userMessage, err := t.templates.UserMessage(text)
	if err != nil {
		slog.Error("llm: Cannot render user message", "role", role, "error", err)
		sentry.CaptureException(err)

		return "", errors.Join(ErrTranslationFailed, err)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	slog.Debug("llm: Requesting translation", "provider", t.provider.Name(), "role", role, "text_length", len(text))

	translation, err := t.provider.Complete(ctx, Request{
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		MaxTokens:    role.maxTokens(),
		Temperature:  temperature,
	})
	if err != nil {
		slog.Error("llm: Translation request failed", "provider", t.provider.Name(), "role", role, "error", err)
		sentry.CaptureException(err)

		return "", errors.Join(ErrTranslationFailed, err)
	}

	translation = strings.TrimSpace(translation)
	if translation == "" {
		slog.Error("llm: Provider returned empty translation", "provider", t.provider.Name(), "role", role)

		return "", errors.Join(ErrTranslationFailed, ErrNoChoices)
	}

	return translation, nil
}
