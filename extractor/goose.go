package extractor

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	goose "github.com/advancedlogic/GoOse"
	"github.com/getsentry/sentry-go"
)

type GoOseExtractor struct {
	fetcher *Fetcher
	goose   *goose.Goose
}

func NewGoOseExtractor(fetcher *Fetcher) *GoOseExtractor {
	if fetcher == nil {
		fetcher = NewFetcher(DefaultFetchTimeout)
	}

	gooseExtractor := goose.New()

	return &GoOseExtractor{
		fetcher: fetcher,
		goose:   &gooseExtractor,
	}
}

func (e *GoOseExtractor) GetArticleFromUrl(ctx context.Context, url string) (Article, error) {
	slog.Info("goose-extractor: requested extraction from URL", "url", url)

	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Error("goose-extractor: failed fetching URL", "url", url, "error", err)

		return Article{}, err
	}

	article, err := e.goose.ExtractFromRawHTML(page, url)
	if err != nil {
		slog.Error("goose-extractor: failed extracting from URL", "url", url)
		sentry.CaptureException(err)

		return Article{}, errors.Join(ErrExtractFailed, err)
	}

	result := Article{
		Title: strings.TrimSpace(article.Title),
		Text:  cleanBodyText(article.CleanedText),
		Url:   url,
	}
	if result.Title == "" && result.Text == "" {
		return Article{}, ErrExtractFailed
	}

	slog.Debug("goose-extractor: article extracted", "url", url, "title", result.Title)

	return result, nil
}
