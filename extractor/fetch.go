package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (compatible; mihaaru-translate-bot/1.0)"

// Fetcher downloads article pages. Only HTTP 200 responses are accepted.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return NewFetcherWithClient(&http.Client{Timeout: timeout})
}

func NewFetcherWithClient(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	return &Fetcher{client: client}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Join(ErrFetchFailed, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	started := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Join(ErrFetchFailed, fmt.Errorf("request page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("extractor: Failed to fetch URL", "url", url, "status", resp.StatusCode)

		return "", errors.Join(ErrFetchFailed, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Join(ErrFetchFailed, fmt.Errorf("read body: %w", err))
	}

	slog.Debug("extractor: Page fetched", "url", url, "bytes", len(body), "took", time.Since(started))

	return string(body), nil
}
