// Package ffmpeg wraps the ffmpeg binary for silence detection and for
// cutting a single audio file into per-track files.
package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tracksplit/internal/chapters"
	"tracksplit/internal/logging"
	"tracksplit/internal/services"
	"tracksplit/internal/silence"
)

// commandContext is swapped out by tests.
var commandContext = exec.CommandContext

// stderrTailLimit bounds how much tool output is quoted in errors.
const stderrTailLimit = 300

// CLI invokes the ffmpeg executable.
type CLI struct {
	binary string
	logger *slog.Logger
}

// Option adjusts client construction.
type Option func(*CLI)

// WithBinary overrides the ffmpeg executable path.
func WithBinary(path string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(path) != "" {
			c.binary = path
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCLI builds an ffmpeg client.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// ScanSilence runs the silencedetect filter over the file and returns the
// detected gap midpoints in order.
func (c *CLI) ScanSilence(ctx context.Context, path string, noiseDB, minDuration float64) ([]silence.Point, error) {
	filter := fmt.Sprintf("silencedetect=noise=%gdB:d=%g", noiseDB, minDuration)
	cmd := commandContext(ctx, c.binary,
		"-hide_banner",
		"-i", path,
		"-af", filter,
		"-f", "null", "-",
	)
	// silencedetect reports on stderr alongside the usual transcode noise.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, services.Wrap(services.ErrSilenceDetection, "ffmpeg", "scan silence",
			tail(string(output)), err)
	}
	points := silence.ParseDetection(string(output))
	c.logger.Debug("silence scan complete", "path", path, "points", len(points))
	return points, nil
}

// SplitPlan describes one split job: the source audio, where the tracks go,
// and the tag values stamped onto every output file.
type SplitPlan struct {
	InputPath string
	OutputDir string
	Artist    string
	Album     string
	// CoverPath, when set, is embedded as ID3 album art in every track.
	CoverPath string
	Chapters  []chapters.Chapter
}

// SplitChapters cuts the source audio into one MP3 per chapter, named
// "NN - Title.mp3". The progress callback, when non-nil, is invoked after
// each finished track. Returns the written paths in track order.
func (c *CLI) SplitChapters(ctx context.Context, plan SplitPlan, progress func(done, total int, title string)) ([]string, error) {
	if len(plan.Chapters) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "split", "no chapters to split", nil)
	}
	if err := os.MkdirAll(plan.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "split", "create output directory", err)
	}

	total := len(plan.Chapters)
	paths := make([]string, 0, total)
	for i, chapter := range plan.Chapters {
		name := fmt.Sprintf("%02d - %s.mp3", i+1, chapter.SafeTitle())
		outputPath := filepath.Join(plan.OutputDir, name)
		if err := c.extractTrack(ctx, plan, chapter, i+1, total, outputPath); err != nil {
			return nil, err
		}
		paths = append(paths, outputPath)
		if progress != nil {
			progress(i+1, total, chapter.Title)
		}
	}
	return paths, nil
}

func (c *CLI) extractTrack(ctx context.Context, plan SplitPlan, chapter chapters.Chapter, track, total int, outputPath string) error {
	args := []string{"-hide_banner", "-y", "-i", plan.InputPath}
	if plan.CoverPath != "" {
		args = append(args, "-i", plan.CoverPath)
	}
	args = append(args,
		"-ss", fmt.Sprintf("%.3f", chapter.Start),
		"-t", fmt.Sprintf("%.3f", chapter.Duration()),
	)
	if plan.CoverPath != "" {
		args = append(args,
			"-map", "0:a", "-map", "1:0",
			"-c:v", "copy",
			"-id3v2_version", "3",
		)
	}
	args = append(args,
		"-c:a", "libmp3lame",
		"-q:a", "0",
		"-metadata", "title="+chapter.Title,
		"-metadata", "artist="+plan.Artist,
		"-metadata", "album="+plan.Album,
		"-metadata", fmt.Sprintf("track=%d/%d", track, total),
		outputPath,
	)

	cmd := commandContext(ctx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "split",
			fmt.Sprintf("track %d (%s): %s", track, chapter.Title, tail(string(output))), err)
	}
	c.logger.Debug("track written", "track", track, "path", outputPath)
	return nil
}

func tail(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "no tool output"
	}
	if len(trimmed) > stderrTailLimit {
		trimmed = trimmed[len(trimmed)-stderrTailLimit:]
	}
	return trimmed
}
