package chapters

import (
	"context"
	"log/slog"

	"tracksplit/internal/services"
	"tracksplit/internal/silence"
)

// SilenceScanner runs acoustic silence detection over a media file.
type SilenceScanner interface {
	ScanSilence(ctx context.Context, path string, noiseDB, minDuration float64) ([]silence.Point, error)
}

// Source carries the chapter-bearing metadata of one media item.
type Source struct {
	Embedded    []Chapter
	Description string
	Duration    float64
}

// Resolver picks the best available first-pass chapter list: embedded
// metadata, then description parsing, then silence-detection synthesis.
// Failures at one source are absorbed and the next source is tried; only
// total exhaustion surfaces an error.
type Resolver struct {
	scanner     SilenceScanner
	logger      *slog.Logger
	noiseDB     float64
	minDuration float64
}

// NewResolver builds a resolver using the given detection parameters for the
// silence-synthesis fallback.
func NewResolver(scanner SilenceScanner, logger *slog.Logger, noiseDB, minDuration float64) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{scanner: scanner, logger: logger, noiseDB: noiseDB, minDuration: minDuration}
}

// Resolve returns the first non-empty valid chapter list for the item.
// audioPath is only touched when both metadata sources come up empty.
func (r *Resolver) Resolve(ctx context.Context, src Source, audioPath string) ([]Chapter, error) {
	if len(src.Embedded) > 0 {
		if chs := validEmbedded(src.Embedded); len(chs) > 0 {
			r.logger.Debug("using embedded chapter metadata", slog.Int("chapters", len(chs)))
			return chs, nil
		}
		r.logger.Debug("embedded chapter metadata invalid, falling through")
	}

	if chs, err := ParseDescription(src.Description, src.Duration); err == nil {
		r.logger.Debug("parsed chapters from description", slog.Int("chapters", len(chs)))
		return chs, nil
	}

	points, err := r.scanner.ScanSilence(ctx, audioPath, r.noiseDB, r.minDuration)
	if err != nil {
		return nil, services.Wrap(services.ErrChapterResolution, "chapters", "resolve", "all chapter sources exhausted", err)
	}
	if len(points) == 0 {
		return nil, services.Wrap(services.ErrSilenceDetection, "chapters", "resolve",
			"no silence detected, adjust detection parameters", nil)
	}
	chs := FromSilences(points, src.Duration)
	r.logger.Debug("synthesized chapters from silence detection", slog.Int("chapters", len(chs)))
	return chs, nil
}

func validEmbedded(embedded []Chapter) []Chapter {
	chs := make([]Chapter, 0, len(embedded))
	for _, ch := range embedded {
		if ch.Validate() != nil {
			return nil
		}
		chs = append(chs, ch)
	}
	return chs
}
