package downloads

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"tracksplit/internal/chapters"
	"tracksplit/internal/config"
	"tracksplit/internal/history"
	"tracksplit/internal/logging"
	"tracksplit/internal/media/ffprobe"
	"tracksplit/internal/media/thumbnail"
	"tracksplit/internal/services/ffmpeg"
	"tracksplit/internal/services/ytdlp"
	"tracksplit/internal/textutil"
)

// Execution is the production Executor: fetch metadata, download the audio,
// resolve and refine chapters, then split into tagged tracks.
type Execution struct {
	cfg        *config.Config
	downloader *ytdlp.Client
	media      *ffmpeg.CLI
	resolver   *chapters.Resolver
	thumbs     *thumbnail.Fetcher
	store      *history.Store
	logger     *slog.Logger
}

// NewExecution wires the production pipeline. The history store may be nil;
// runs are then simply not recorded.
func NewExecution(
	cfg *config.Config,
	downloader *ytdlp.Client,
	media *ffmpeg.CLI,
	resolver *chapters.Resolver,
	thumbs *thumbnail.Fetcher,
	store *history.Store,
	logger *slog.Logger,
) *Execution {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Execution{
		cfg:        cfg,
		downloader: downloader,
		media:      media,
		resolver:   resolver,
		thumbs:     thumbs,
		store:      store,
		logger:     logger,
	}
}

// Execute implements Executor.
func (e *Execution) Execute(ctx context.Context, task Task, cell *ytdlp.ProgressCell) (Outcome, error) {
	info, err := e.downloader.FetchInfo(ctx, task.URL)
	if err != nil {
		e.record(ctx, task, Outcome{}, err)
		return Outcome{}, err
	}

	artist, album := task.Artist, task.Album
	if artist == "" || album == "" {
		derivedArtist, derivedAlbum := textutil.ParseArtistAlbum(info.Title)
		if artist == "" {
			artist = derivedArtist
		}
		if album == "" {
			album = derivedAlbum
		}
	}
	e.logger.Info("metadata fetched",
		"title", info.Title, "artist", artist, "album", album,
		"duration", textutil.FormatDuration(info.Duration))

	template := filepath.Join(e.cfg.Paths.WorkDir, task.ID.String()+".%(ext)s")
	audioPath, err := e.downloader.Download(ctx, task.URL, template, cell)
	if err != nil {
		e.record(ctx, task, Outcome{Artist: artist, Album: album}, err)
		return Outcome{}, err
	}
	defer os.Remove(audioPath)

	duration := info.Duration
	if duration <= 0 {
		if probed, probeErr := ffprobe.Inspect(ctx, "ffprobe", audioPath); probeErr == nil {
			duration = probed.DurationSeconds()
		} else {
			e.logger.Warn("duration probe failed", "error", probeErr)
		}
	}

	source := chapters.Source{
		Embedded:    info.Chapters,
		Description: info.Description,
		Duration:    duration,
	}
	resolved, err := e.resolver.Resolve(ctx, source, audioPath)
	if err != nil {
		e.record(ctx, task, Outcome{Artist: artist, Album: album}, err)
		return Outcome{}, err
	}

	refined := resolved
	points, scanErr := e.media.ScanSilence(ctx, audioPath,
		float64(e.cfg.Silence.NoiseDB), e.cfg.Silence.MinDuration)
	if scanErr != nil {
		// Refinement is best effort; the declared boundaries still stand.
		e.logger.Warn("silence scan failed, keeping declared boundaries", "error", scanErr)
	} else {
		refined = chapters.Refine(resolved, points, e.cfg.Silence.RefineWindow)
	}

	coverPath := e.fetchCover(ctx, task, info)
	if coverPath != "" {
		defer os.Remove(coverPath)
	}

	outputDir := filepath.Join(e.cfg.Paths.OutputDir,
		textutil.SanitizeTitle(artist), textutil.SanitizeTitle(album))
	plan := ffmpeg.SplitPlan{
		InputPath: audioPath,
		OutputDir: outputDir,
		Artist:    artist,
		Album:     album,
		CoverPath: coverPath,
		Chapters:  refined,
	}
	tracks, err := e.media.SplitChapters(ctx, plan, func(done, total int, title string) {
		e.logger.Info("track written", "track", done, "of", total, "title", title)
	})
	if err != nil {
		e.record(ctx, task, Outcome{Artist: artist, Album: album, OutputDir: outputDir}, err)
		return Outcome{}, err
	}

	outcome := Outcome{
		Artist:     artist,
		Album:      album,
		OutputDir:  outputDir,
		TrackPaths: tracks,
	}
	e.record(ctx, task, outcome, nil)
	return outcome, nil
}

// fetchCover downloads the video thumbnail for album art embedding. Cover
// art is cosmetic, so any failure downgrades to a warning.
func (e *Execution) fetchCover(ctx context.Context, task Task, info ytdlp.VideoInfo) string {
	if !e.cfg.Split.EmbedCoverArt || e.thumbs == nil {
		return ""
	}
	coverPath := filepath.Join(e.cfg.Paths.WorkDir, task.ID.String()+"-cover.jpg")
	urls := thumbnail.CandidateURLs(info.ID, info.ThumbnailURL)
	if err := e.thumbs.Fetch(ctx, urls, coverPath); err != nil {
		e.logger.Warn("cover art fetch failed, tracks will have no art", "error", err)
		return ""
	}
	return coverPath
}

func (e *Execution) record(ctx context.Context, task Task, outcome Outcome, runErr error) {
	if e.store == nil {
		return
	}
	rec := history.Record{
		ID:         task.ID.String(),
		URL:        task.URL,
		Artist:     outcome.Artist,
		Album:      outcome.Album,
		TrackCount: len(outcome.TrackPaths),
		OutputDir:  outcome.OutputDir,
		Status:     history.StatusComplete,
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.ErrorMessage = runErr.Error()
	}
	if _, err := e.store.Add(ctx, rec); err != nil {
		e.logger.Warn("history record failed", "error", err)
	}
}
