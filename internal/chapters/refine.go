package chapters

import (
	"tracksplit/internal/silence"
)

const (
	// boundaryDrift is how far a snapped boundary may cross the declared
	// time in the disallowed direction. Declared timecodes are imprecise
	// but roughly trustworthy; drifting a start later or an end earlier by
	// more than this would eat into the neighboring track.
	boundaryDrift = 0.5

	// overlapNudge separates a chapter end from the next start when an
	// earlier chapter was forced open.
	overlapNudge = 0.1

	// minTrackSeconds is the shortest refined chapter allowed.
	minTrackSeconds = 30.0
)

// Refine snaps each chapter boundary toward the nearest silence point within
// the search window, producing a new list. Processing is strictly
// left-to-right: a chapter may push the following one open but never the
// reverse. The outer boundaries stay pinned; the first start may only move
// earlier and the last end never moves. An empty silence batch returns the
// input unchanged.
func Refine(chs []Chapter, points []silence.Point, window float64) []Chapter {
	if len(chs) == 0 {
		return nil
	}
	if len(points) == 0 {
		refined := make([]Chapter, len(chs))
		copy(refined, chs)
		return refined
	}

	refined := make([]Chapter, 0, len(chs))
	for i, ch := range chs {
		last := i == len(chs)-1

		start := ch.Start
		if p, ok := silence.Nearest(points, ch.Start, window); ok {
			if i == 0 {
				if p.Position <= ch.Start+boundaryDrift {
					start = p.Position
				}
			} else if p.Position >= ch.Start-boundaryDrift {
				start = p.Position
			}
		}

		end := ch.End
		if !last {
			if p, ok := silence.Nearest(points, ch.End, window); ok && p.Position <= ch.End+boundaryDrift {
				end = p.Position
			}
		}

		if len(refined) > 0 {
			if prevEnd := refined[len(refined)-1].End; start < prevEnd {
				start = prevEnd
				if end < prevEnd+overlapNudge {
					end = prevEnd + overlapNudge
				}
			}
		}
		if end < start+minTrackSeconds {
			end = start + minTrackSeconds
		}

		refined = append(refined, Chapter{Title: ch.Title, Start: start, End: end})
	}
	return refined
}
