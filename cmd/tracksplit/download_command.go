package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tracksplit/internal/chapters"
	"tracksplit/internal/config"
	"tracksplit/internal/deps"
	"tracksplit/internal/downloads"
	"tracksplit/internal/history"
	"tracksplit/internal/logging"
	"tracksplit/internal/media/thumbnail"
	"tracksplit/internal/services/ffmpeg"
	"tracksplit/internal/services/ytdlp"
)

const pollInterval = 250 * time.Millisecond

func newDownloadCommand(configFlag *string) *cobra.Command {
	var artist, album string

	cmd := &cobra.Command{
		Use:   "download URL...",
		Short: "Download media and split it into per-track files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(*configFlag)
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return errors.New("another tracksplit run is already in progress")
			}
			defer lock.Unlock()

			statuses := deps.Check(deps.Defaults(cfg))
			if !deps.AllFound(statuses) {
				return fmt.Errorf("missing required tools: %s (run 'tracksplit deps' for details)",
					strings.Join(deps.Missing(statuses), ", "))
			}

			return runDownloads(cmd, cfg, logger, args, artist, album)
		},
	}

	cmd.Flags().StringVar(&artist, "artist", "", "Override the artist derived from the video title")
	cmd.Flags().StringVar(&album, "album", "", "Override the album derived from the video title")
	return cmd
}

func runDownloads(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, urls []string, artist, album string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	stamps := ytdlp.NewFileStamps(cfg.UpdateStampPath())
	client := ytdlp.NewClient(stamps,
		ytdlp.WithBinary(cfg.Downloader.Binary),
		ytdlp.WithCookiesFromBrowser(cfg.Downloader.CookiesFromBrowser),
		ytdlp.WithCookiesFile(cfg.Downloader.CookiesFile),
		ytdlp.WithLogger(logging.NewComponentLogger(logger, "ytdlp")),
	)
	maybeUpdateDownloader(ctx, cfg, client, stamps, logger)

	media := ffmpeg.NewCLI(ffmpeg.WithLogger(logging.NewComponentLogger(logger, "ffmpeg")))
	resolver := chapters.NewResolver(media,
		logging.NewComponentLogger(logger, "chapters"),
		float64(cfg.Silence.NoiseDB), cfg.Silence.MinDuration)
	thumbs := thumbnail.NewFetcher(thumbnail.WithLogger(logging.NewComponentLogger(logger, "thumbnail")))

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	execution := downloads.NewExecution(cfg, client, media, resolver, thumbs, store, logger)
	manager := downloads.NewManager(execution, logging.NewComponentLogger(logger, "downloads"))

	for _, url := range urls {
		if ytdlp.IsPlaylistURL(url) {
			entries, err := client.FetchPlaylist(ctx, url)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Expanded playlist into %d entries\n", len(entries))
			for _, entry := range entries {
				manager.Add(entry.URL, artist, album)
			}
			continue
		}
		manager.Add(url, artist, album)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for manager.Pending() > 0 || manager.Busy() {
		manager.Start(ctx)
		<-ticker.C
		manager.PollOnce()
	}

	return printSummary(out, manager)
}

// maybeUpdateDownloader runs the rate-limited staleness check before any
// work starts. Failures never abort the run; a stale tool still gets its
// one-shot recovery during the download itself.
func maybeUpdateDownloader(ctx context.Context, cfg *config.Config, client *ytdlp.Client, stamps *ytdlp.FileStamps, logger *slog.Logger) {
	if cfg.Downloader.UpdateCheckDays <= 0 {
		return
	}
	interval := time.Duration(cfg.Downloader.UpdateCheckDays) * 24 * time.Hour
	if !ytdlp.ShouldCheck(stamps, interval, time.Now()) {
		return
	}
	info, ok := client.VersionInfo(ctx)
	if !ok {
		return
	}
	if !info.Outdated {
		if err := stamps.Mark(time.Now().UTC()); err != nil {
			logger.Warn("record update check", "error", err)
		}
		return
	}
	logger.Info("yt-dlp is outdated, updating", "version", info.Version, "days_old", info.DaysOld)
	if err := client.Update(ctx); err != nil {
		logger.Warn("yt-dlp update failed", "error", err)
	}
}

func printSummary(out io.Writer, manager *downloads.Manager) error {
	tasks := manager.Tasks()
	rows := make([][]string, 0, len(tasks))
	failed := 0
	for _, task := range tasks {
		detail := task.Status.Message
		if task.Result != nil {
			detail = task.Result.OutputDir
		}
		album := task.Album
		if task.Artist != "" {
			album = task.Artist + " - " + task.Album
		}
		if task.Status.Kind == downloads.StatusFailed {
			failed++
		}
		rows = append(rows, []string{
			album,
			string(task.Status.Kind),
			strconv.Itoa(task.TrackCount()),
			detail,
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Album", "Status", "Tracks", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))

	if failed == len(tasks) && failed > 0 {
		return errors.New("every download failed")
	}
	if failed > 0 {
		fmt.Fprintf(out, "%d of %d downloads failed\n", failed, len(tasks))
	}
	return nil
}
