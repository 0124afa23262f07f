package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"mihaaru-translate-bot/config"
	"mihaaru-translate-bot/delivery"
	"mihaaru-translate-bot/pipeline"
	"mihaaru-translate-bot/stats"
)

var (
	ErrGetMe          = errors.New("cannot retrieve api user")
	ErrUpdatesChannel = errors.New("cannot get updates channel")
	ErrHandlerInit    = errors.New("cannot initialize handler")
	ErrChatID         = errors.New("invalid chat identifier")
)

// API is the subset of the Telegram Bot API used by handlers. *telego.Bot implements it.
type API interface {
	delivery.Sender
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
}

// Runner processes one article URL end to end.
type Runner interface {
	Run(ctx context.Context, url string, minBodyLength int, destination telego.ChatID) (pipeline.Result, error)
}

type Bot struct {
	tg       *telego.Bot
	api      API
	pipeline Runner
	stats    *stats.Stats
	source   telego.ChatID
	target   telego.ChatID
	me       botInfo
	ctx      context.Context
}

func NewBot(
	tg *telego.Bot,
	pipeline Runner,
	st *stats.Stats,
	cfg config.BotConfig,
) (*Bot, error) {
	source, err := parseChatID(cfg.SourceChannel)
	if err != nil {
		return nil, errors.Join(ErrChatID, err)
	}

	target, err := parseChatID(cfg.TargetChannel)
	if err != nil {
		return nil, errors.Join(ErrChatID, err)
	}

	return &Bot{
		tg:       tg,
		api:      tg,
		pipeline: pipeline,
		stats:    st,
		source:   source,
		target:   target,
		ctx:      context.Background(),
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	botUser, err := b.tg.GetMe(ctx)
	if err != nil {
		slog.Error("bot: Cannot retrieve api user", "error", err)
		sentry.CaptureException(err)

		return ErrGetMe
	}

	b.me = botInfoFromUser(botUser)

	slog.Info("bot: Running api as", "id", b.me.ID, "username", b.me.Username, "name", b.me.FirstName, "is_bot", b.me.IsBot)
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "telegram-api",
		Message:  "Bot ID: " + strconv.FormatInt(b.me.ID, 10),
		Level:    sentry.LevelInfo,
	})

	updates, err := b.tg.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		AllowedUpdates: []string{"message", "channel_post"},
	})
	if err != nil {
		slog.Error("bot: Cannot get update channel", "error", err)
		sentry.CaptureException(err)

		return ErrUpdatesChannel
	}

	bh, err := th.NewBotHandler(b.tg, updates)
	if err != nil {
		slog.Error("bot: Cannot initialize bot handler", "error", err)
		sentry.CaptureException(err)

		return ErrHandlerInit
	}

	// Middlewares
	bh.Use(b.updateLogger)

	// Command handlers
	bh.Handle(b.startHandler, th.CommandEqual("start"), b.commandForThisBot())
	bh.Handle(b.helpHandler, th.CommandEqual("help"), b.commandForThisBot())
	bh.Handle(b.statsHandler, th.CommandEqual("stats"), b.commandForThisBot())
	bh.Handle(b.translateHandler, th.CommandEqual("translate"), b.commandForThisBot())

	// Source channel
	bh.Handle(b.channelPostHandler, channelPostFrom(b.source))

	slog.Info("bot: Listening for channel posts and /translate commands",
		"source", b.source.String(),
		"target", b.target.String(),
	)

	go func() {
		<-ctx.Done()
		slog.Info("bot: Stopping update handling")
		_ = bh.Stop()
	}()

	return bh.Start()
}
