package ytdlp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"tracksplit/internal/chapters"
	"tracksplit/internal/services"
)

// VideoInfo is the slice of yt-dlp's metadata dump the splitter cares about.
type VideoInfo struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Duration     float64            `json:"duration"`
	Uploader     string             `json:"uploader"`
	Description  string             `json:"description"`
	ThumbnailURL string             `json:"thumbnail"`
	Chapters     []chapters.Chapter `json:"chapters"`
}

// PlaylistEntry is one flat playlist row.
type PlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

var playlistIDPattern = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)

// IsPlaylistURL reports whether url carries a playlist identifier.
func IsPlaylistURL(url string) bool {
	return playlistIDPattern.MatchString(url)
}

// FetchInfo dumps the video metadata without downloading any media.
func (c *Client) FetchInfo(ctx context.Context, url string) (VideoInfo, error) {
	args := []string{"--dump-json", "--no-playlist"}
	args = append(args, c.cookieArgs()...)
	args = append(args, url)

	cmd := commandContext(ctx, c.binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		message, hint := ClassifyMetadataError(stderr.String(), c.cookiesConfigured())
		if hint != "" {
			message = message + " (" + hint + ")"
		}
		return VideoInfo{}, services.Wrap(services.ErrDownload, "ytdlp", "fetch info", message, err)
	}

	var info VideoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return VideoInfo{}, services.Wrap(services.ErrDownload, "ytdlp", "fetch info", "decode metadata", err)
	}
	return info, nil
}

// FetchPlaylist lists a playlist's entries without resolving each video. Rows
// that fail to decode are skipped so one broken entry does not sink the rest.
func (c *Client) FetchPlaylist(ctx context.Context, url string) ([]PlaylistEntry, error) {
	args := []string{"--dump-json", "--flat-playlist", "--no-warnings"}
	args = append(args, c.cookieArgs()...)
	args = append(args, url)

	cmd := commandContext(ctx, c.binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		message := ExtractFailureMessage(stderr.String())
		return nil, services.Wrap(services.ErrDownload, "ytdlp", "fetch playlist", message, err)
	}

	var entries []PlaylistEntry
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry PlaylistEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			c.logger.Debug("skipping undecodable playlist row", "error", err)
			continue
		}
		if entry.URL == "" && entry.ID != "" {
			entry.URL = fmt.Sprintf("https://www.youtube.com/watch?v=%s", entry.ID)
		}
		if entry.URL == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrDownload, "ytdlp", "fetch playlist", "read playlist dump", err)
	}
	if len(entries) == 0 {
		return nil, services.Wrap(services.ErrDownload, "ytdlp", "fetch playlist", "playlist contains no playable entries", nil)
	}
	return entries, nil
}
