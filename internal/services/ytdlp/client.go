package ytdlp

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"tracksplit/internal/logging"
	"tracksplit/internal/services"
)

// commandContext is swapped out by tests to exercise the client without a
// real yt-dlp binary.
var commandContext = exec.CommandContext

// formatSelectors are tried in order until one download succeeds. The empty
// selector means no -f flag at all, letting the tool pick its own default.
var formatSelectors = []string{
	"bestaudio[ext=m4a]/bestaudio",
	"140",
	"bestaudio",
	"",
}

// Client drives the yt-dlp binary for downloads, metadata fetches, and
// self-updates.
type Client struct {
	binary             string
	cookiesFromBrowser string
	cookiesFile        string
	stamps             UpdateStamps
	logger             *slog.Logger
}

// Option adjusts client construction.
type Option func(*Client)

// WithBinary overrides the yt-dlp executable path.
func WithBinary(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.binary = path
		}
	}
}

// WithCookiesFromBrowser passes browser cookies through to yt-dlp.
func WithCookiesFromBrowser(browser string) Option {
	return func(c *Client) {
		c.cookiesFromBrowser = strings.TrimSpace(browser)
	}
}

// WithCookiesFile passes a Netscape cookie file through to yt-dlp.
func WithCookiesFile(path string) Option {
	return func(c *Client) {
		c.cookiesFile = strings.TrimSpace(path)
	}
}

// WithLogger sets the structured logger used for retry and update events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a downloader client. The stamp store may be nil when
// automatic update tracking is not wanted.
func NewClient(stamps UpdateStamps, opts ...Option) *Client {
	client := &Client{
		binary: "yt-dlp",
		stamps: stamps,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) cookiesConfigured() bool {
	return c.cookiesFromBrowser != "" || c.cookiesFile != ""
}

func (c *Client) cookieArgs() []string {
	var args []string
	if c.cookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", c.cookiesFromBrowser)
	}
	if c.cookiesFile != "" {
		args = append(args, "--cookies", c.cookiesFile)
	}
	return args
}

// Download fetches the audio for url into outputPath (extension replaced with
// .mp3), publishing progress into cell. Format selectors are tried in order,
// and a failure that looks like a stale yt-dlp build triggers one update and
// retry cycle before the error is surfaced.
func (c *Client) Download(ctx context.Context, url, outputPath string, cell *ProgressCell) (string, error) {
	if cell != nil {
		cell.Reset()
	}

	path, diagnostics, err := c.runSelectors(ctx, url, outputPath, cell)
	if err == nil {
		return path, nil
	}

	if c.outdatedSignature(ctx, diagnostics) {
		c.logger.Warn("yt-dlp looks outdated, attempting update", "url", url)
		if updateErr := c.Update(ctx); updateErr != nil {
			c.logger.Warn("yt-dlp update failed", "error", updateErr)
			return "", err
		}
		c.logger.Info("yt-dlp updated, retrying download", "url", url)
		path, _, retryErr := c.runSelectors(ctx, url, outputPath, cell)
		if retryErr == nil {
			return path, nil
		}
		return "", retryErr
	}

	return "", err
}

// outdatedSignature reports whether the failure diagnostics point at a stale
// build. The version check is only consulted for access errors, so the common
// failure paths never spawn an extra process.
func (c *Client) outdatedSignature(ctx context.Context, diagnostics string) bool {
	if IsOutdatedFailure(diagnostics, false) {
		return true
	}
	lower := strings.ToLower(diagnostics)
	if !strings.Contains(lower, "http error 403") && !strings.Contains(lower, "forbidden") {
		return false
	}
	info, ok := c.VersionInfo(ctx)
	return ok && info.Outdated
}

// runSelectors walks the format selector ladder. The first selector's
// diagnostics are returned for outdated-build detection; the last selector's
// error is the one surfaced to the caller.
func (c *Client) runSelectors(ctx context.Context, url, outputPath string, cell *ProgressCell) (string, string, error) {
	var (
		firstDiagnostics string
		lastErr          error
	)
	for i, selector := range formatSelectors {
		path, diagnostics, err := c.tryDownload(ctx, url, outputPath, selector, cell)
		if err == nil {
			return path, firstDiagnostics, nil
		}
		if i == 0 {
			firstDiagnostics = diagnostics
		}
		lastErr = err
		c.logger.Debug("download attempt failed",
			"selector", selectorLabel(selector), "url", url, "error", err)
	}
	return "", firstDiagnostics, lastErr
}

func selectorLabel(selector string) string {
	if selector == "" {
		return "default"
	}
	return selector
}

func (c *Client) tryDownload(ctx context.Context, url, outputPath, selector string, cell *ProgressCell) (string, string, error) {
	args := make([]string, 0, 16)
	if selector != "" {
		args = append(args, "-f", selector)
	}
	args = append(args,
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"-o", outputPath,
		"--no-playlist",
	)
	args = append(args, c.cookieArgs()...)
	args = append(args, url)

	cmd := commandContext(ctx, c.binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", "", services.Wrap(services.ErrToolInvocation, "ytdlp", "download", "open stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return "", "", services.Wrap(services.ErrToolInvocation, "ytdlp", "download", "start yt-dlp", err)
	}

	reader := &streamReader{cell: cell}
	done := make(chan struct{})
	go func() {
		defer close(done)
		reader.consume(stderr)
	}()

	<-done
	waitErr := cmd.Wait()
	diagnostics := reader.text()
	if waitErr != nil {
		message := ExtractFailureMessage(diagnostics)
		return "", diagnostics, services.Wrap(services.ErrDownload, "ytdlp", "download", message, waitErr)
	}
	return mp3Path(outputPath), diagnostics, nil
}

// mp3Path replaces the output template's extension with .mp3, matching the
// file the audio extractor actually writes.
func mp3Path(outputPath string) string {
	if idx := strings.LastIndex(outputPath, "."); idx > strings.LastIndex(outputPath, "/") {
		return outputPath[:idx] + ".mp3"
	}
	return outputPath + ".mp3"
}
