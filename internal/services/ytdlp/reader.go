package ytdlp

import (
	"io"
	"strings"
)

// publishThreshold is the minimum percentage advance between published
// records. Smaller deltas are dropped so the observer is not flooded with
// no-op updates.
const publishThreshold = 0.5

// streamReader drains a downloader diagnostic stream line by line, feeding
// each complete line to the progress parser and publishing advancing records
// into the cell. The full raw text is retained for error extraction after a
// failed exit.
type streamReader struct {
	cell          *ProgressCell
	raw           strings.Builder
	partial       strings.Builder
	published     bool
	lastPublished float64
}

func (r *streamReader) consume(src io.Reader) {
	buf := make([]byte, 8192)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			r.raw.WriteString(chunk)
			for _, c := range chunk {
				if c == '\n' || c == '\r' {
					r.flushLine()
					continue
				}
				r.partial.WriteRune(c)
			}
		}
		if err != nil {
			r.flushLine()
			return
		}
	}
}

func (r *streamReader) flushLine() {
	line := r.partial.String()
	r.partial.Reset()
	if line == "" {
		return
	}
	rec, ok := ParseProgressLine(line)
	if !ok {
		return
	}
	if r.published && rec.Percentage-r.lastPublished < publishThreshold {
		return
	}
	if r.cell != nil {
		r.cell.Set(rec)
	}
	r.published = true
	r.lastPublished = rec.Percentage
}

func (r *streamReader) text() string {
	return r.raw.String()
}
