package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	tg "github.com/mymmrac/telego"

	"mihaaru-translate-bot/bot"
	"mihaaru-translate-bot/config"
	"mihaaru-translate-bot/delivery"
	"mihaaru-translate-bot/extractor"
	"mihaaru-translate-bot/llm"
	"mihaaru-translate-bot/pipeline"
	"mihaaru-translate-bot/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	setupLogging(cfg.Log)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			slog.Error("main: Cannot initialize Sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	templates, err := llm.NewTemplateProcessor(cfg.LLM.Prompts)
	if err != nil {
		slog.Error("main: Cannot parse prompt templates", "error", err)
		os.Exit(1)
	}

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		slog.Error("main: Cannot create LLM provider", "error", err)
		os.Exit(1)
	}

	ext, err := extractor.New(cfg.Extractor.Backend, extractor.NewFetcher(cfg.Extractor.FetchTimeout))
	if err != nil {
		slog.Error("main: Cannot create article extractor", "error", err)
		os.Exit(1)
	}

	telegramApi, err := tg.NewBot(cfg.Bot.Telegram.Token, tg.WithLogger(bot.NewLogger("telego: ", cfg.Bot.Telegram.Token)))
	if err != nil {
		slog.Error("main: Cannot create Telegram API client", "error", err)
		os.Exit(1)
	}

	st := stats.NewStats()
	translator := llm.NewTranslator(provider, templates, cfg.LLM.Timeout)
	sink := delivery.NewSink(telegramApi, cfg.Bot.PartDelay, cfg.Bot.SendTimeout)

	botService, err := bot.NewBot(telegramApi, pipeline.New(ext, translator, sink, st), st, cfg.Bot)
	if err != nil {
		slog.Error("main: Cannot create bot", "error", err)
		os.Exit(1)
	}

	slog.Info("main: Starting",
		"provider", provider.Name(),
		"extractor", cfg.Extractor.Backend,
		"source", cfg.Bot.SourceChannel,
		"target", cfg.Bot.TargetChannel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := botService.Run(ctx); err != nil {
		slog.Error("Running bot finished with an error", "error", err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}

	slog.Info("main: Stopped")
}

func setupLogging(cfg config.LogConfig) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		slog.Warn("main: Unknown log level, using info", "level", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
