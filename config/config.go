package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	ExtractorMihaaru     = "mihaaru"
	ExtractorReadability = "readability"
	ExtractorGoOse       = "goose"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the root configuration structure
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Bot       BotConfig       `yaml:"bot"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Log       LogConfig       `yaml:"log"`
}

// LLMConfig contains configuration for the translation provider
type LLMConfig struct {
	Provider  string          `yaml:"provider"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Prompts   PromptConfig    `yaml:"prompts"`
	Timeout   time.Duration   `yaml:"timeout"`
}

type OpenAIConfig struct {
	APIBaseURL string `yaml:"base_url"`
	APIToken   string `yaml:"api_key"`
	Model      string `yaml:"model"`
}

type AnthropicConfig struct {
	APIToken string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// PromptConfig contains configuration for prompts
type PromptConfig struct {
	TitlePrompt    string `yaml:"title"`
	BodyPrompt     string `yaml:"body"`
	SourceLanguage string `yaml:"source_language"`
	TargetLanguage string `yaml:"target_language"`
}

// SentryConfig contains configuration for Sentry error tracking
type SentryConfig struct {
	DSN string `yaml:"dsn"`
}

// BotConfig contains configuration for bot settings
type BotConfig struct {
	Telegram      TelegramConfig `yaml:"telegram"`
	SourceChannel string         `yaml:"source_channel"`
	TargetChannel string         `yaml:"target_channel"`
	PartDelay     time.Duration  `yaml:"part_delay"`
	SendTimeout   time.Duration  `yaml:"send_timeout"`
}

// TelegramConfig contains configuration for Telegram bot
type TelegramConfig struct {
	Token string `yaml:"token"`
}

type ExtractorConfig struct {
	Backend      string        `yaml:"backend"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	defaultTitlePrompt = "You are a helpful assistant that translates a {{.SourceLanguage}} news article title to {{.TargetLanguage}}. " +
		"Provide only the translated {{.TargetLanguage}} title. Keep it concise and impactful."

	defaultBodyPrompt = "You are a helpful assistant that translates {{.SourceLanguage}} text to {{.TargetLanguage}}. " +
		"Provide only the translated {{.TargetLanguage}} text as output, without any additional commentary or phrases like 'Here is the translation:'. " +
		"Maintain a journalistic and formal tone in the {{.TargetLanguage}} translation."
)

// Default returns configuration with every optional value filled in
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			OpenAI: OpenAIConfig{
				Model: "gpt-3.5-turbo",
			},
			Anthropic: AnthropicConfig{
				Model: "claude-3-haiku-20240307",
			},
			Prompts: PromptConfig{
				TitlePrompt:    defaultTitlePrompt,
				BodyPrompt:     defaultBodyPrompt,
				SourceLanguage: "Dhivehi",
				TargetLanguage: "English",
			},
		},
		Bot: BotConfig{
			PartDelay: time.Second,
		},
		Extractor: ExtractorConfig{
			Backend:      ExtractorMihaaru,
			FetchTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load creates a new Config instance populated from the optional CONFIG_FILE
// and then from environment variables
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(os.Getenv)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	setString(&c.Bot.Telegram.Token, getenv("TELEGRAM_TOKEN"))
	setString(&c.Bot.SourceChannel, getenv("SOURCE_CHANNEL_ID"))
	setString(&c.Bot.TargetChannel, getenv("TARGET_CHANNEL_ID"))
	setDuration(&c.Bot.PartDelay, getenv("PART_DELAY"), time.Millisecond)
	setDuration(&c.Bot.SendTimeout, getenv("SEND_TIMEOUT"), time.Second)

	setString(&c.LLM.Provider, strings.ToLower(getenv("TRANSLATION_PROVIDER")))
	setString(&c.LLM.OpenAI.APIToken, getenv("OPENAI_API_KEY"))
	setString(&c.LLM.OpenAI.APIBaseURL, getenv("OPENAI_API_BASE_URL"))
	setString(&c.LLM.OpenAI.Model, getenv("OPENAI_MODEL_NAME"))
	setString(&c.LLM.Anthropic.APIToken, getenv("ANTHROPIC_API_KEY"))
	setString(&c.LLM.Anthropic.Model, getenv("ANTHROPIC_MODEL_NAME"))
	setString(&c.LLM.Prompts.TitlePrompt, getenv("PROMPT_TITLE"))
	setString(&c.LLM.Prompts.BodyPrompt, getenv("PROMPT_BODY"))
	setString(&c.LLM.Prompts.SourceLanguage, getenv("SOURCE_LANGUAGE"))
	setString(&c.LLM.Prompts.TargetLanguage, getenv("TARGET_LANGUAGE"))
	setDuration(&c.LLM.Timeout, getenv("TRANSLATION_TIMEOUT"), time.Second)

	setString(&c.Extractor.Backend, strings.ToLower(getenv("EXTRACTOR")))
	setDuration(&c.Extractor.FetchTimeout, getenv("FETCH_TIMEOUT"), time.Second)

	setString(&c.Sentry.DSN, getenv("SENTRY_DSN"))
	setString(&c.Log.Level, strings.ToLower(getenv("LOG_LEVEL")))
	setString(&c.Log.Format, strings.ToLower(getenv("LOG_FORMAT")))
}

// Validate checks that everything required to connect is present.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Bot.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is missing"))
	}
	if c.Bot.SourceChannel == "" {
		errs = append(errs, errors.New("SOURCE_CHANNEL_ID is missing"))
	}
	if c.Bot.TargetChannel == "" {
		errs = append(errs, errors.New("TARGET_CHANNEL_ID is missing"))
	}

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.OpenAI.APIToken == "" {
			errs = append(errs, errors.New("TRANSLATION_PROVIDER is 'openai' but OPENAI_API_KEY is missing"))
		}
	case ProviderAnthropic:
		if c.LLM.Anthropic.APIToken == "" {
			errs = append(errs, errors.New("TRANSLATION_PROVIDER is 'anthropic' but ANTHROPIC_API_KEY is missing"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid TRANSLATION_PROVIDER %q, must be 'openai' or 'anthropic'", c.LLM.Provider))
	}

	switch c.Extractor.Backend {
	case ExtractorMihaaru, ExtractorReadability, ExtractorGoOse:
	default:
		errs = append(errs, fmt.Errorf("invalid EXTRACTOR %q", c.Extractor.Backend))
	}

	if c.Extractor.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// setDuration parses a bare integer in the given unit. Invalid values are ignored.
func setDuration(dst *time.Duration, value string, unit time.Duration) {
	if value == "" {
		return
	}

	if n, err := strconv.Atoi(value); err == nil && n >= 0 {
		*dst = time.Duration(n) * unit
	}
}
