package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"
)

// Sender is the part of the Telegram API used for delivery. *telego.Bot implements it.
type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Outcome is the result of sending one part.
type Outcome struct {
	Part    int
	Message *telego.Message
	Err     error
}

type Sink struct {
	sender      Sender
	delay       time.Duration
	sendTimeout time.Duration
}

// NewSink paces consecutive parts by delay. A zero sendTimeout leaves sends unbounded.
func NewSink(sender Sender, delay time.Duration, sendTimeout time.Duration) *Sink {
	return &Sink{
		sender:      sender,
		delay:       delay,
		sendTimeout: sendTimeout,
	}
}

// Deliver sends parts in order as HTML without link previews. A failed part is
// logged and the remaining parts are still attempted.
func (s *Sink) Deliver(ctx context.Context, chatID telego.ChatID, parts []string) []Outcome {
	limiter := rate.NewLimiter(rate.Every(s.delay), 1)
	outcomes := make([]Outcome, 0, len(parts))

	if len(parts) > 1 {
		slog.Info("delivery: Message is split into parts", "chat", chatID.String(), "parts", len(parts))
	}

	for i, part := range parts {
		outcome := Outcome{Part: i}

		if err := limiter.Wait(ctx); err != nil {
			slog.Error("delivery: Pacing interrupted", "chat", chatID.String(), "part", i+1, "error", err)
			outcome.Err = err
			outcomes = append(outcomes, outcome)

			continue
		}

		slog.Debug("delivery: Sending part", "chat", chatID.String(), "part", i+1, "total", len(parts))

		outcome.Message, outcome.Err = s.send(ctx, chatID, part)
		if outcome.Err != nil {
			slog.Error("delivery: Cannot send part", "chat", chatID.String(), "part", i+1, "total", len(parts), "error", outcome.Err)
			sentry.CaptureException(outcome.Err)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (s *Sink) send(ctx context.Context, chatID telego.ChatID, text string) (*telego.Message, error) {
	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}

	params := tu.Message(chatID, text).
		WithParseMode(telego.ModeHTML).
		WithLinkPreviewOptions(&telego.LinkPreviewOptions{IsDisabled: true})

	return s.sender.SendMessage(ctx, params)
}

// Failed counts parts that were not sent.
func Failed(outcomes []Outcome) int {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}

	return failed
}
