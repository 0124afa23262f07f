package bot

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// channelPostFrom returns a predicate that matches posts published in the given channel
func channelPostFrom(channel telego.ChatID) th.Predicate {
	return func(_ context.Context, update telego.Update) bool {
		if update.ChannelPost == nil {
			return false
		}

		return isSameChat(update.ChannelPost.Chat, channel)
	}
}

func isSameChat(chat telego.Chat, id telego.ChatID) bool {
	if id.Username != "" {
		return chat.Username != "" && strings.EqualFold("@"+chat.Username, id.Username)
	}

	return chat.ID == id.ID
}
