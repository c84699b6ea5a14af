package textutil

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	fullAlbumSuffixPattern = regexp.MustCompile(`(?i)\s*[\[(]full\s+album[\])].*$`)
	fullAlbumDashPattern   = regexp.MustCompile(`(?i)\s*-\s*full\s+album\s*$`)
	bracketPattern         = regexp.MustCompile(`\[.*?\]|\(.*?\)`)
	spaceRunPattern        = regexp.MustCompile(`\s+`)
	trackPrefixPattern     = regexp.MustCompile(`^\s*(?:Track\s+)?\d+\s*[-.:)]?\s+`)
)

var titleCaser = cases.Title(language.English)

// CleanFolderName normalizes a raw video or channel title into a directory
// name: "FULL ALBUM" suffixes and bracketed qualifiers are stripped,
// underscores, pipes and slashes become dashes, runs of whitespace collapse,
// and each word is title-cased.
func CleanFolderName(name string) string {
	cleaned := fullAlbumSuffixPattern.ReplaceAllString(name, "")
	cleaned = bracketPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.NewReplacer("_", "-", "|", "-", "/", "-").Replace(cleaned)
	cleaned = fullAlbumDashPattern.ReplaceAllString(cleaned, "")
	cleaned = spaceRunPattern.ReplaceAllString(cleaned, " ")
	cleaned = titleCaser.String(strings.TrimSpace(cleaned))
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(cleaned), "-"))
}

// ParseArtistAlbum splits a video title of the form "ARTIST - ALBUM [...]"
// (or with a pipe separator) into a cleaned artist and album pair. Titles
// without a recognizable separator fall back to "Unknown Artist" with the
// whole cleaned title as the album.
func ParseArtistAlbum(title string) (artist, album string) {
	cleaned := fullAlbumSuffixPattern.ReplaceAllString(title, "")
	cleaned = bracketPattern.ReplaceAllString(cleaned, "")

	var parts []string
	switch {
	case strings.Contains(cleaned, " - "):
		parts = strings.Split(cleaned, " - ")
	case strings.Contains(cleaned, " | "):
		parts = strings.Split(cleaned, " | ")
	default:
		parts = []string{strings.TrimSpace(cleaned)}
	}

	if len(parts) >= 2 {
		return CleanFolderName(strings.TrimSpace(parts[0])), CleanFolderName(strings.TrimSpace(parts[1]))
	}
	return "Unknown Artist", CleanFolderName(strings.TrimSpace(cleaned))
}

// SanitizeTitle cleans a chapter title for use as a filename: leading track
// numbering is removed and filesystem-unsafe characters become underscores.
func SanitizeTitle(title string) string {
	title = trackPrefixPattern.ReplaceAllString(title, "")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, title)
}

// FormatDuration renders seconds as "Mm SSs", or "Hh MMm SSs" past an hour.
func FormatDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %02ds", minutes, secs)
}

// FormatDurationShort renders seconds as "Mm SSs" without rolling minutes
// into hours.
func FormatDurationShort(seconds float64) string {
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm %02ds", minutes, secs)
}
