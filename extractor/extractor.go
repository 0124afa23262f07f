package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mihaaru-translate-bot/config"
)

var (
	ErrFetchFailed   = errors.New("article fetch failed")
	ErrExtractFailed = errors.New("extraction failed")
)

const DefaultFetchTimeout = 30 * time.Second

type Article struct {
	Title string
	Text  string
	Url   string
}

// Extractor fetches a page and returns whatever title and body text it could find.
// Errors wrap either ErrFetchFailed or ErrExtractFailed.
type Extractor interface {
	GetArticleFromUrl(ctx context.Context, url string) (Article, error)
}

// New returns the extractor for the configured backend.
func New(backend string, fetcher *Fetcher) (Extractor, error) {
	switch backend {
	case config.ExtractorMihaaru, "":
		return NewMihaaruExtractor(fetcher), nil
	case config.ExtractorReadability:
		return NewReadabilityExtractor(fetcher), nil
	case config.ExtractorGoOse:
		return NewGoOseExtractor(fetcher), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", backend)
	}
}
