package bot

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// updateLogger records which kind of update arrived before passing it on.
func (b *Bot) updateLogger(ctx *th.Context, update telego.Update) error {
	switch {
	case update.ChannelPost != nil:
		slog.Debug("update-middleware: channel post", "update", update.UpdateID, "chat", update.ChannelPost.Chat.ID)
	case update.Message != nil:
		slog.Debug("update-middleware: message", "update", update.UpdateID, "chat", update.Message.Chat.ID, "type", update.Message.Chat.Type)
	default:
		slog.Debug("update-middleware: update has no message. skipping.", "update", update.UpdateID)
	}

	return ctx.Next(update)
}
