package chapters

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"tracksplit/internal/textutil"
)

// Description lines are matched against two incompatible layouts. The
// ordinal format ("1 - Title (4:24)") is tried first because its lines also
// satisfy the looser generic pattern with the wrong capture groups.
var (
	ordinalLinePattern = regexp.MustCompile(`(?m)^\s*(\d+)\s*[-–—]\s*(.+?)\s*\((\d{1,2}:\d{2}(?::\d{2})?)\)\s*$`)
	genericLinePattern = regexp.MustCompile(`(?m)^\s*\[?(\d{1,2}:\d{2}(?::\d{2})?)\]?\s*[-–—:]?\s*(.+?)\s*$`)
)

// ErrNoDescriptionChapters reports that a description held fewer than two
// usable chapter lines.
var ErrNoDescriptionChapters = errors.New("not enough chapters found in description")

type descriptionEntry struct {
	start float64
	title string
}

// ParseDescription extracts a chapter list from a video description.
// At least two distinct duration-valid entries are required; otherwise the
// whole attempt is rejected so the caller can fall through to another
// source. Entries are sorted by timestamp and each chapter ends where the
// next begins, the last at videoDuration.
func ParseDescription(description string, videoDuration float64) ([]Chapter, error) {
	entries := collectEntries(ordinalLinePattern, description, videoDuration, true)
	if len(entries) == 0 {
		entries = collectEntries(genericLinePattern, description, videoDuration, false)
	}
	if len(entries) < 2 {
		return nil, ErrNoDescriptionChapters
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	var chs []Chapter
	for i, entry := range entries {
		end := videoDuration
		if i+1 < len(entries) {
			end = entries[i+1].start
		}
		// Entries closer than a second apart are duplicates or noise.
		if end > entry.start+1 {
			chs = append(chs, Chapter{Title: entry.title, Start: entry.start, End: end})
		}
	}
	if len(chs) == 0 {
		return nil, ErrNoDescriptionChapters
	}
	return chs, nil
}

func collectEntries(pattern *regexp.Regexp, description string, videoDuration float64, ordinal bool) []descriptionEntry {
	var entries []descriptionEntry
	for _, caps := range pattern.FindAllStringSubmatch(description, -1) {
		var timestamp, title string
		if ordinal {
			title, timestamp = caps[2], caps[3]
		} else {
			timestamp, title = caps[1], caps[2]
		}
		title = strings.TrimSpace(title)
		if len(title) < 2 {
			continue
		}
		start, err := ParseTimestamp(timestamp)
		if err != nil || start >= videoDuration {
			continue
		}
		clean := textutil.SanitizeTitle(title)
		if clean == "" {
			continue
		}
		entries = append(entries, descriptionEntry{start: start, title: clean})
	}
	return entries
}
