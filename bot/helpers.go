package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	t "github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

var (
	urlRegexp         = regexp.MustCompile(`https?://\S+`)
	commandArgsRegexp = regexp.MustCompile(`(?s)^/\w+(?:@\w+)?(?:\s+|$)(.*)`)
)

func (b *Bot) reply(originalMessage t.Message, newMessage *t.SendMessageParams) *t.SendMessageParams {
	return newMessage.WithReplyParameters(&t.ReplyParameters{
		MessageID: originalMessage.MessageID,
	})
}

// handlerContext returns a context tied to the current telego handler, falling back
// to the bot root context if the handler does not expose one.
func (b *Bot) handlerContext(handlerCtx *th.Context) context.Context {
	if handlerCtx != nil {
		if ctx := handlerCtx.Context(); ctx != nil {
			return ctx
		}
	}

	return b.ctx
}

func (b *Bot) sendTyping(ctx context.Context, chatId t.ChatID) {
	slog.Debug("bot: Setting 'typing' chat action")

	err := b.api.SendChatAction(ctx, tu.ChatAction(chatId, "typing"))
	if err != nil {
		slog.Error("bot: Cannot set chat action", "error", err)
		sentry.CaptureException(err)
	}
}

// sendReply answers with plain text and without a link preview.
func (b *Bot) sendReply(ctx context.Context, message t.Message, text string) {
	_, err := b.api.SendMessage(ctx, b.reply(message, tu.Message(
		tu.ID(message.Chat.ID),
		text,
	).WithLinkPreviewOptions(&t.LinkPreviewOptions{IsDisabled: true})))
	if err != nil {
		slog.Error("bot: Can't send reply message", "chat", message.Chat.ID, "error", err)
		sentry.CaptureException(err)
	}
}

func (b *Bot) trySendReplyError(ctx context.Context, message t.Message) {
	if ctx == nil {
		ctx = b.ctx
	}
	_, _ = b.api.SendMessage(ctx, b.reply(message, tu.Message(
		tu.ID(message.Chat.ID),
		"Error occurred while trying to send reply.",
	)))
}

// messageText returns the text of a message or the caption of a media message.
func messageText(message t.Message) (string, []t.MessageEntity) {
	if message.Text == "" && message.Caption != "" {
		return message.Caption, message.CaptionEntities
	}

	return message.Text, message.Entities
}

// firstURL returns the first http(s) URL written in text, then the first hidden
// text link, or "" when there is none.
func firstURL(text string, entities []t.MessageEntity) string {
	if url := urlRegexp.FindString(text); url != "" {
		return url
	}

	for _, e := range entities {
		if e.Type == t.EntityTypeTextLink && urlRegexp.MatchString(e.URL) {
			return e.URL
		}
	}

	return ""
}

// commandArgs strips the leading "/command" or "/command@bot" from text.
func commandArgs(text string) string {
	matches := commandArgsRegexp.FindStringSubmatch(text)
	if matches == nil {
		return ""
	}

	return strings.TrimSpace(matches[1])
}

// parseChatID accepts a numeric chat id or a public @username.
func parseChatID(value string) (t.ChatID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return t.ChatID{}, errors.New("empty chat identifier")
	}

	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return tu.ID(id), nil
	}

	username := strings.TrimPrefix(value, "@")
	if username == "" || strings.ContainsAny(username, " /:") {
		return t.ChatID{}, fmt.Errorf("chat identifier %q is neither an id nor a username", value)
	}

	return tu.Username("@" + username), nil
}
