package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mihaaru-translate-bot/config"
)

type fakeProvider struct {
	calls    int
	requests []Request
	reply    string
	err      error
	deadline bool
}

func (f *fakeProvider) Name() string {
	return "fake"
}

func (f *fakeProvider) Complete(ctx context.Context, req Request) (string, error) {
	f.calls++
	f.requests = append(f.requests, req)
	_, f.deadline = ctx.Deadline()

	return f.reply, f.err
}

func newTestTranslator(t *testing.T, provider Provider, timeout time.Duration) *Translator {
	t.Helper()

	templates, err := NewTemplateProcessor(config.Default().LLM.Prompts)
	if err != nil {
		t.Fatalf("NewTemplateProcessor returned error: %v", err)
	}

	return NewTranslator(provider, templates, timeout)
}

func TestTranslate_EmptyInputSkipsProvider(t *testing.T) {
	provider := &fakeProvider{reply: "unused"}
	translator := newTestTranslator(t, provider, 0)

	for _, input := range []string{"", "   \n\t"} {
		got, err := translator.Translate(context.Background(), input, RoleBody)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("expected ErrEmptyInput, got %q, %v", got, err)
		}
	}

	if provider.calls != 0 {
		t.Fatalf("provider must not be called for empty input, got %d calls", provider.calls)
	}
}

func TestTranslate_RoleSelectsPromptAndBudget(t *testing.T) {
	provider := &fakeProvider{reply: "  Translated  \n"}
	translator := newTestTranslator(t, provider, 0)

	title, err := translator.Translate(context.Background(), "ސުރުޚީ", RoleTitle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Translated" {
		t.Fatalf("translation must be trimmed, got %q", title)
	}

	if _, err := translator.Translate(context.Background(), "ލިޔުން", RoleBody); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(provider.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(provider.requests))
	}

	titleReq, bodyReq := provider.requests[0], provider.requests[1]

	if titleReq.MaxTokens != 1000 || bodyReq.MaxTokens != 3000 {
		t.Fatalf("unexpected budgets: title %d, body %d", titleReq.MaxTokens, bodyReq.MaxTokens)
	}
	if titleReq.Temperature != 0.3 || bodyReq.Temperature != 0.3 {
		t.Fatalf("unexpected temperature: %v / %v", titleReq.Temperature, bodyReq.Temperature)
	}
	if !strings.Contains(titleReq.SystemPrompt, "concise and impactful") {
		t.Fatalf("unexpected title prompt: %s", titleReq.SystemPrompt)
	}
	if !strings.Contains(bodyReq.SystemPrompt, "journalistic and formal") {
		t.Fatalf("unexpected body prompt: %s", bodyReq.SystemPrompt)
	}
	if !strings.Contains(bodyReq.SystemPrompt, "Dhivehi text to English") {
		t.Fatalf("languages must be rendered into the prompt: %s", bodyReq.SystemPrompt)
	}
	if bodyReq.UserMessage != "Translate the following Dhivehi text to English:\n\nލިޔުން" {
		t.Fatalf("unexpected user message: %q", bodyReq.UserMessage)
	}
}

func TestTranslate_ProviderFailure(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{name: "error", provider: &fakeProvider{err: ErrLlmBackendRequestFailed}},
		{name: "blank reply", provider: &fakeProvider{reply: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translator := newTestTranslator(t, tt.provider, 0)

			got, err := translator.Translate(context.Background(), "text", RoleBody)
			if !errors.Is(err, ErrTranslationFailed) {
				t.Fatalf("expected ErrTranslationFailed, got %q, %v", got, err)
			}
			if got != "" {
				t.Fatalf("failed translation must be empty, got %q", got)
			}
			if tt.provider.calls != 1 {
				t.Fatalf("provider must be called exactly once, got %d", tt.provider.calls)
			}
		})
	}
}

func TestTranslate_Timeout(t *testing.T) {
	unbounded := &fakeProvider{reply: "ok"}
	if _, err := newTestTranslator(t, unbounded, 0).Translate(context.Background(), "text", RoleBody); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unbounded.deadline {
		t.Fatalf("zero timeout must not set a deadline")
	}

	bounded := &fakeProvider{reply: "ok"}
	if _, err := newTestTranslator(t, bounded, time.Minute).Translate(context.Background(), "text", RoleBody); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bounded.deadline {
		t.Fatalf("configured timeout must set a deadline")
	}
}

func TestNewTemplateProcessor_InvalidTemplate(t *testing.T) {
	prompts := config.Default().LLM.Prompts
	prompts.TitlePrompt = "{{.Broken"

	if _, err := NewTemplateProcessor(prompts); err == nil {
		t.Fatalf("expected template parse error")
	}
}

func TestNewProvider(t *testing.T) {
	cfg := config.Default().LLM

	cfg.Provider = config.ProviderOpenAI
	p, err := NewProvider(cfg)
	if err != nil || p.Name() != "openai" {
		t.Fatalf("unexpected provider: %v, %v", p, err)
	}

	cfg.Provider = config.ProviderAnthropic
	p, err = NewProvider(cfg)
	if err != nil || p.Name() != "anthropic" {
		t.Fatalf("unexpected provider: %v, %v", p, err)
	}

	cfg.Provider = "other"
	if _, err := NewProvider(cfg); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
