package extractor

import (
	"context"
	"errors"
	"log/slog"
	neturl "net/url"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-shiori/go-readability"
)

type ReadabilityExtractor struct {
	fetcher *Fetcher
}

func NewReadabilityExtractor(fetcher *Fetcher) *ReadabilityExtractor {
	if fetcher == nil {
		fetcher = NewFetcher(DefaultFetchTimeout)
	}

	return &ReadabilityExtractor{fetcher: fetcher}
}

func (e *ReadabilityExtractor) GetArticleFromUrl(ctx context.Context, url string) (Article, error) {
	slog.Info("readability-extractor: requested extraction from URL", "url", url)

	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Error("readability-extractor: failed fetching URL", "url", url, "error", err)

		return Article{}, err
	}

	pageURL, err := neturl.Parse(url)
	if err != nil {
		return Article{}, errors.Join(ErrExtractFailed, err)
	}

	article, err := readability.FromReader(strings.NewReader(page), pageURL)
	if err != nil {
		slog.Error("readability-extractor: failed extracting from URL", "url", url)
		sentry.CaptureException(err)

		return Article{}, errors.Join(ErrExtractFailed, err)
	}

	result := Article{
		Title: strings.TrimSpace(article.Title),
		Text:  cleanBodyText(article.TextContent),
		Url:   url,
	}
	if result.Title == "" && result.Text == "" {
		return Article{}, ErrExtractFailed
	}

	slog.Debug("readability-extractor: article extracted", "url", url, "title", result.Title)

	return result, nil
}
