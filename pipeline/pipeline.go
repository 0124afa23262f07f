// Package pipeline runs one triggering event through extraction, translation,
// formatting and delivery.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/mymmrac/telego"

	"mihaaru-translate-bot/delivery"
	"mihaaru-translate-bot/extractor"
	"mihaaru-translate-bot/llm"
	"mihaaru-translate-bot/message"
	"mihaaru-translate-bot/stats"
)

// Minimum body length in characters for each trigger.
const (
	MinBodyLengthChannelPost = 50
	MinBodyLengthManual      = 30
)

var (
	ErrExtraction   = errors.New("article extraction failed")
	ErrBodyTooShort = errors.New("article body is too short")
	ErrTranslation  = errors.New("article translation failed")
)

type Stage string

const (
	StageExtract       Stage = "extract"
	StageTranslateBody Stage = "translate-body"
)

// Failure is returned when an event is aborted. Err wraps ErrExtraction or ErrTranslation.
type Failure struct {
	Stage Stage
	URL   string
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.URL, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

type Translator interface {
	Translate(ctx context.Context, text string, role llm.Role) (string, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, chatID telego.ChatID, parts []string) []delivery.Outcome
}

type Result struct {
	URL      string
	Title    string
	Parts    []string
	Outcomes []delivery.Outcome
}

type Pipeline struct {
	extractor  extractor.Extractor
	translator Translator
	sink       Deliverer
	stats      *stats.Stats
}

func New(ext extractor.Extractor, translator Translator, sink Deliverer, st *stats.Stats) *Pipeline {
	if st == nil {
		st = stats.NewStats()
	}

	return &Pipeline{
		extractor:  ext,
		translator: translator,
		sink:       sink,
		stats:      st,
	}
}

// Run translates the article at url and delivers it to destination. Failures before
// delivery abort the event with a *Failure and nothing is sent. Delivery problems are
// reported per part in the result only.
func (p *Pipeline) Run(ctx context.Context, url string, minBodyLength int, destination telego.ChatID) (Result, error) {
	result := Result{URL: url}

	article, err := p.extractor.GetArticleFromUrl(ctx, url)
	if err != nil {
		p.stats.ExtractionFailure()

		return result, &Failure{Stage: StageExtract, URL: url, Err: errors.Join(ErrExtraction, err)}
	}

	if n := utf8.RuneCountInString(article.Text); n < minBodyLength {
		slog.Warn("pipeline: Article body text too short", "url", url, "length", n, "min", minBodyLength)
		p.stats.ExtractionFailure()

		return result, &Failure{Stage: StageExtract, URL: url, Err: errors.Join(ErrExtraction, ErrBodyTooShort)}
	}

	if article.Title != "" {
		slog.Info("pipeline: Translating title", "url", url)

		title, err := p.translator.Translate(ctx, article.Title, llm.RoleTitle)
		if err != nil {
			// the message goes out without a title
			slog.Warn("pipeline: Title translation failed", "url", url, "error", err)
		}
		result.Title = title
	}

	slog.Info("pipeline: Translating article body", "url", url)

	body, err := p.translator.Translate(ctx, article.Text, llm.RoleBody)
	if err != nil {
		slog.Warn("pipeline: Body translation failed", "url", url, "error", err)
		p.stats.TranslationFailure()
		result.Title = ""

		return result, &Failure{Stage: StageTranslateBody, URL: url, Err: errors.Join(ErrTranslation, err)}
	}

	result.Parts = message.Split(message.Format(result.Title, body, url), message.MaxLength)

	slog.Info("pipeline: Sending translation", "url", url, "chat", destination.String(), "parts", len(result.Parts))

	result.Outcomes = p.sink.Deliver(ctx, destination, result.Parts)

	failed := delivery.Failed(result.Outcomes)
	p.stats.Delivered(failed)

	if failed > 0 {
		slog.Warn("pipeline: Translation delivered partially", "url", url, "failed_parts", failed, "parts", len(result.Parts))
	} else {
		slog.Info("pipeline: Translation sent", "url", url, "chat", destination.String())
	}

	return result, nil
}
