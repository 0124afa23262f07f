package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/getsentry/sentry-go"
)

// MihaaruExtractor understands the markup of mihaaru.com article pages and degrades
// to generic <article>/<body> text on anything else.
type MihaaruExtractor struct {
	fetcher *Fetcher
}

func NewMihaaruExtractor(fetcher *Fetcher) *MihaaruExtractor {
	if fetcher == nil {
		fetcher = NewFetcher(DefaultFetchTimeout)
	}

	return &MihaaruExtractor{fetcher: fetcher}
}

func (e *MihaaruExtractor) GetArticleFromUrl(ctx context.Context, url string) (Article, error) {
	slog.Info("mihaaru-extractor: requested extraction from URL", "url", url)

	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Error("mihaaru-extractor: failed fetching URL", "url", url, "error", err)

		return Article{}, err
	}

	article, err := ExtractFromHTML(page)
	if err != nil {
		slog.Error("mihaaru-extractor: no title or body text found", "url", url)

		return Article{}, err
	}
	article.Url = url

	slog.Debug("mihaaru-extractor: article extracted", "url", url, "title", article.Title, "text_length", len(article.Text))

	return article, nil
}

// ExtractFromHTML runs title and body extraction over a raw page.
// It fails only when neither a title nor any body text was found.
func ExtractFromHTML(page string) (Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		sentry.CaptureException(err)

		return Article{}, errors.Join(ErrExtractFailed, fmt.Errorf("parse document: %w", err))
	}

	title := extractTitle(doc)
	if title == "" {
		slog.Warn("mihaaru-extractor: could not find title heading")
	}

	stripNonContent(doc)

	var body string
	for _, strategy := range bodyStrategies {
		if text := strategy.Extract(doc); text != "" {
			slog.Debug("mihaaru-extractor: body extracted", "strategy", strategy.Name)
			body = cleanBodyText(text)
			break
		}
	}

	if title == "" && body == "" {
		return Article{}, ErrExtractFailed
	}

	return Article{
		Title: title,
		Text:  body,
	}, nil
}
