package ytdlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tracksplit/internal/services"
)

// staleAfterDays is how old a yt-dlp release may be before it is considered
// stale. Sites change their protocols often enough that older builds start
// failing with 403s.
const staleAfterDays = 90

// versionDatePattern matches the YYYY.MM.DD release scheme yt-dlp uses.
var versionDatePattern = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`)

// VersionInfo describes the installed downloader build.
type VersionInfo struct {
	Version  string
	Released time.Time
	DaysOld  int
	Outdated bool
}

func parseVersionDate(version string, now time.Time) (VersionInfo, bool) {
	caps := versionDatePattern.FindStringSubmatch(version)
	if caps == nil {
		return VersionInfo{}, false
	}
	year, _ := strconv.Atoi(caps[1])
	month, _ := strconv.Atoi(caps[2])
	day, _ := strconv.Atoi(caps[3])
	released := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	daysOld := int(now.Sub(released).Hours() / 24)
	return VersionInfo{
		Version:  strings.TrimSpace(version),
		Released: released,
		DaysOld:  daysOld,
		Outdated: daysOld > staleAfterDays,
	}, true
}

// VersionInfo queries the installed tool version and derives its age from
// the release-date version scheme.
func (c *Client) VersionInfo(ctx context.Context) (VersionInfo, bool) {
	cmd := commandContext(ctx, c.binary, "--version")
	output, err := cmd.Output()
	if err != nil {
		return VersionInfo{}, false
	}
	return parseVersionDate(strings.TrimSpace(string(output)), time.Now().UTC())
}

// UpdateStamps records when the downloader was last updated, so automatic
// update checks can be rate limited across runs.
type UpdateStamps interface {
	// Last returns the previous update time, if one was recorded.
	Last() (time.Time, bool)
	// Mark records an update attempt at the given time.
	Mark(t time.Time) error
}

// FileStamps persists the update timestamp as unix seconds in a plain file.
type FileStamps struct {
	path string
}

// NewFileStamps builds a file-backed stamp store at the given path.
func NewFileStamps(path string) *FileStamps {
	return &FileStamps{path: path}
}

// Last implements UpdateStamps.
func (s *FileStamps) Last() (time.Time, bool) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(string(content)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0), true
}

// Mark implements UpdateStamps.
func (s *FileStamps) Mark(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure stamp directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(strconv.FormatInt(t.Unix(), 10)), 0o644); err != nil {
		return fmt.Errorf("write update stamp: %w", err)
	}
	return nil
}

// ShouldCheck reports whether enough time has passed since the last recorded
// update for another check to be worthwhile. A missing stamp always allows a
// check.
func ShouldCheck(stamps UpdateStamps, interval time.Duration, now time.Time) bool {
	if stamps == nil {
		return false
	}
	last, ok := stamps.Last()
	if !ok {
		return true
	}
	return now.Sub(last) >= interval
}

// Update upgrades the downloader, trying the tool's self-updater first and
// falling back to pip. A successful attempt is recorded in the stamp store.
func (c *Client) Update(ctx context.Context) error {
	attempts := [][]string{
		{c.binary, "--update"},
		{"python3", "-m", "pip", "install", "--upgrade", "yt-dlp"},
		{"python", "-m", "pip", "install", "--upgrade", "yt-dlp"},
	}

	var lastErr error
	for _, argv := range attempts {
		cmd := commandContext(ctx, argv[0], argv[1:]...)
		output, err := cmd.CombinedOutput()
		if err == nil {
			if c.stamps != nil {
				if markErr := c.stamps.Mark(time.Now().UTC()); markErr != nil {
					c.logger.Warn("record update stamp", "error", markErr)
				}
			}
			return nil
		}
		lastErr = fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, strings.TrimSpace(string(output)))
	}
	return services.Wrap(services.ErrToolInvocation, "ytdlp", "update",
		"unable to update yt-dlp, run pip install --upgrade yt-dlp manually", lastErr)
}
