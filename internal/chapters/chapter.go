package chapters

import (
	"fmt"
	"sort"

	"tracksplit/internal/silence"
	"tracksplit/internal/textutil"
)

// Chapter is a titled [start, end) interval of a media file, in seconds.
// The JSON tags match the chapter objects in yt-dlp metadata output.
type Chapter struct {
	Title string  `json:"title"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

// New validates interval bounds and builds a chapter.
func New(title string, start, end float64) (Chapter, error) {
	if start < 0 {
		return Chapter{}, fmt.Errorf("chapter %q: start %.2f must be >= 0", title, start)
	}
	if end <= start {
		return Chapter{}, fmt.Errorf("chapter %q: end %.2f must be > start %.2f", title, end, start)
	}
	return Chapter{Title: title, Start: start, End: end}, nil
}

// Duration returns the chapter length in seconds.
func (c Chapter) Duration() float64 {
	return c.End - c.Start
}

// SafeTitle returns the title sanitized for filesystem use.
func (c Chapter) SafeTitle() string {
	return textutil.SanitizeTitle(c.Title)
}

// Validate checks the interval invariants on an externally sourced chapter.
func (c Chapter) Validate() error {
	_, err := New(c.Title, c.Start, c.End)
	return err
}

// FromSilences synthesizes generically titled chapters split at each silence
// point, with a trailing chapter ending at the total duration. Points may
// arrive in arbitrary order; they are sorted before splitting.
func FromSilences(points []silence.Point, duration float64) []Chapter {
	sorted := make([]silence.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var chs []Chapter
	start := 0.0
	for _, p := range sorted {
		if p.Position <= start || p.Position >= duration {
			continue
		}
		chs = append(chs, Chapter{
			Title: fmt.Sprintf("Track %d", len(chs)+1),
			Start: start,
			End:   p.Position,
		})
		start = p.Position
	}
	chs = append(chs, Chapter{
		Title: fmt.Sprintf("Track %d", len(chs)+1),
		Start: start,
		End:   duration,
	})
	return chs
}
