// Package thumbnail fetches video cover art for embedding into split tracks.
package thumbnail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tracksplit/internal/logging"
	"tracksplit/internal/services"
)

const (
	fetchTimeout  = 15 * time.Second
	fetchAttempts = 3
	retryDelay    = time.Second
)

// Fetcher downloads cover art over HTTP.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// Option adjusts fetcher construction.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher builds a cover art fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	fetcher := &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// CandidateURLs lists thumbnail URLs to try for a video, best quality first.
// The metadata thumbnail, when known, is preferred over the derived tiers.
func CandidateURLs(videoID, metadataURL string) []string {
	var urls []string
	if metadataURL != "" {
		urls = append(urls, metadataURL)
	}
	if videoID != "" {
		for _, tier := range []string{"maxresdefault", "hqdefault", "mqdefault"} {
			urls = append(urls, fmt.Sprintf("https://i.ytimg.com/vi/%s/%s.jpg", videoID, tier))
		}
	}
	return urls
}

// Fetch downloads the first reachable candidate into destPath. Every URL
// gets a few attempts before the next tier is tried. Cover art is cosmetic,
// so callers usually log and continue on failure.
func (f *Fetcher) Fetch(ctx context.Context, urls []string, destPath string) error {
	if len(urls) == 0 {
		return services.Wrap(services.ErrExternalTool, "thumbnail", "fetch", "no candidate URLs", nil)
	}

	var lastErr error
	for _, url := range urls {
		for attempt := 1; attempt <= fetchAttempts; attempt++ {
			retryable, err := f.fetchOne(ctx, url, destPath)
			if err == nil {
				f.logger.Debug("cover art fetched", "url", url, "attempt", attempt)
				return nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return services.Wrap(services.ErrExternalTool, "thumbnail", "fetch", "canceled", ctx.Err())
			}
			// A definitive HTTP status means this tier does not exist;
			// move straight to the next one.
			if !retryable {
				break
			}
			if attempt < fetchAttempts {
				select {
				case <-ctx.Done():
					return services.Wrap(services.ErrExternalTool, "thumbnail", "fetch", "canceled", ctx.Err())
				case <-time.After(retryDelay):
				}
			}
		}
		f.logger.Debug("cover art tier unavailable", "url", url, "error", lastErr)
	}
	return services.Wrap(services.ErrExternalTool, "thumbnail", "fetch", "all candidate URLs failed", lastErr)
}

func (f *Fetcher) fetchOne(ctx context.Context, url, destPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return false, fmt.Errorf("create %s: %w", destPath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return true, fmt.Errorf("write %s: %w", destPath, err)
	}
	return false, out.Close()
}
