package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"mihaaru-translate-bot/pipeline"
)

const usageText = "Please provide a URL after the /translate command.\r\n\r\n" +
	"Example:\r\n" +
	"/translate https://mihaaru.com/news/123456"

func (b *Bot) channelPostHandler(ctx *th.Context, update telego.Update) error {
	b.processChannelPost(b.handlerContext(ctx), *update.ChannelPost)

	return nil
}

// processChannelPost translates the first article linked in a source channel post
// and publishes it to the target channel. Failures are only logged.
func (b *Bot) processChannelPost(ctx context.Context, post telego.Message) {
	b.stats.ChannelPost()

	slog.Info("bot: New post in source channel", "chat", post.Chat.ID, "message", post.MessageID)

	text, entities := messageText(post)
	url := firstURL(text, entities)
	if url == "" {
		slog.Debug("bot: Channel post has no URL. Skipping.", "chat", post.Chat.ID)

		return
	}

	slog.Info("bot: Detected article URL in channel post", "url", url)

	if _, err := b.pipeline.Run(ctx, url, pipeline.MinBodyLengthChannelPost, b.target); err != nil {
		slog.Warn("bot: Channel post translation aborted", "url", url, "error", err)
	}
}

func (b *Bot) translateHandler(ctx *th.Context, update telego.Update) error {
	b.processTranslateCommand(b.handlerContext(ctx), *update.Message)

	return nil
}

// processTranslateCommand handles "/translate <url>" and answers in the chat it came from.
func (b *Bot) processTranslateCommand(ctx context.Context, message telego.Message) {
	b.stats.ManualRequest()

	chatID := tu.ID(message.Chat.ID)

	text, entities := messageText(message)
	url := firstURL(commandArgs(text), entities)
	if url == "" {
		b.sendReply(ctx, message, usageText)

		return
	}

	slog.Info("bot: /translate", "url", url, "chat", message.Chat.ID)

	b.sendReply(ctx, message, "Processing manual translation for: "+url+"...")
	b.sendTyping(ctx, chatID)

	_, err := b.pipeline.Run(ctx, url, pipeline.MinBodyLengthManual, chatID)
	if err == nil {
		return
	}

	slog.Warn("bot: Manual translation aborted", "url", url, "chat", message.Chat.ID, "error", err)

	switch {
	case errors.Is(err, pipeline.ErrExtraction):
		b.sendReply(ctx, message, "Could not extract enough article body text from "+url+". Please check the URL or try another.")
	case errors.Is(err, pipeline.ErrTranslation):
		b.sendReply(ctx, message, "Translation of body failed for "+url+". The translation service might be unavailable or the content is not translatable.")
	default:
		sentry.CaptureException(err)
		b.trySendReplyError(ctx, message)
	}
}

func (b *Bot) helpHandler(ctx *th.Context, update telego.Update) error {
	slog.Info("bot: /help")

	b.sendReply(b.handlerContext(ctx), *update.Message,
		"Instructions:\r\n"+
			"/translate <link> - Translate an article and send it here\r\n"+
			"/stats - Show bot statistics\r\n"+
			"/help - Show this help\r\n\r\n"+
			"New articles posted in the source channel are translated automatically.",
	)

	return nil
}

func (b *Bot) startHandler(ctx *th.Context, update telego.Update) error {
	slog.Info("bot: /start")

	b.sendReply(b.handlerContext(ctx), *update.Message,
		"Hey!\r\n"+
			"Check out /help to learn how to use this bot.",
	)

	return nil
}

func (b *Bot) statsHandler(ctx *th.Context, update telego.Update) error {
	slog.Info("bot: /stats")

	message := *update.Message

	_, err := b.api.SendMessage(b.handlerContext(ctx), b.reply(message, tu.Message(
		tu.ID(message.Chat.ID),
		"Current bot stats:\r\n"+
			"<pre>"+b.stats.String()+"</pre>",
	).WithParseMode(telego.ModeHTML)))
	if err != nil {
		slog.Error("bot: Cannot send a message", "error", err)
		sentry.CaptureException(err)
	}

	return nil
}
