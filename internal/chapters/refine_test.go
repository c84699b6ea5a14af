package chapters

import (
	"testing"

	"tracksplit/internal/silence"
)

func TestRefineEmptySilenceMapIsNoOp(t *testing.T) {
	chs := []Chapter{
		{Title: "Track 1", Start: 0, End: 200},
		{Title: "Track 2", Start: 200, End: 400},
	}
	refined := Refine(chs, nil, 5.0)
	if len(refined) != len(chs) {
		t.Fatalf("got %d chapters, want %d", len(refined), len(chs))
	}
	for i := range chs {
		if refined[i] != chs[i] {
			t.Errorf("chapter %d changed: %+v != %+v", i, refined[i], chs[i])
		}
	}
	// The refined list is a fresh slice, never an alias of the input.
	refined[0].Title = "mutated"
	if chs[0].Title != "Track 1" {
		t.Error("Refine aliased the input slice")
	}
}

func TestRefineSnapsBoundariesTowardSilence(t *testing.T) {
	chs := []Chapter{
		{Title: "Track 1", Start: 0, End: 200},
		{Title: "Track 2", Start: 200, End: 400},
		{Title: "Track 3", Start: 400, End: 600},
	}
	points := []silence.Point{
		{Position: 201.5},
		{Position: 398.0},
	}
	refined := Refine(chs, points, 5.0)

	// Track 1 end snaps to 201.5 (within declared end + 0.5).
	if refined[0].End != 201.5 {
		t.Errorf("track 1 end = %v, want 201.5", refined[0].End)
	}
	// Track 2 start snaps to 201.5 (>= declared - 0.5), end to 398.
	if refined[1].Start != 201.5 {
		t.Errorf("track 2 start = %v, want 201.5", refined[1].Start)
	}
	if refined[1].End != 398.0 {
		t.Errorf("track 2 end = %v, want 398.0", refined[1].End)
	}
	// Track 3 start may not drift earlier than declared - 0.5, so 398 is
	// rejected and the declared start is kept; the last end never moves.
	if refined[2].Start != 400 {
		t.Errorf("track 3 start = %v, want 400", refined[2].Start)
	}
	if refined[2].End != 600 {
		t.Errorf("track 3 end = %v, want 600", refined[2].End)
	}
}

func TestRefineFirstChapterStartOnlyMovesEarlier(t *testing.T) {
	chs := []Chapter{
		{Title: "Track 1", Start: 10, End: 200},
		{Title: "Track 2", Start: 200, End: 400},
	}
	// Candidate lies 3s after the declared start, which the first chapter
	// must not chase.
	refined := Refine(chs, []silence.Point{{Position: 13.0}}, 5.0)
	if refined[0].Start != 10 {
		t.Errorf("first start = %v, want declared 10", refined[0].Start)
	}

	// A candidate slightly before the declared start is accepted.
	refined = Refine(chs, []silence.Point{{Position: 8.0}}, 5.0)
	if refined[0].Start != 8.0 {
		t.Errorf("first start = %v, want 8.0", refined[0].Start)
	}
}

func TestRefineNonOverlapAndMinimumDuration(t *testing.T) {
	chs := []Chapter{
		{Title: "Track 1", Start: 0, End: 100},
		{Title: "Track 2", Start: 100, End: 130},
		{Title: "Track 3", Start: 130, End: 300},
	}
	points := []silence.Point{
		{Position: 101.0},
		{Position: 129.5},
	}
	refined := Refine(chs, points, 5.0)

	for i := 0; i < len(refined)-1; i++ {
		if refined[i].End > refined[i+1].Start {
			t.Errorf("chapters %d and %d overlap: end %v > start %v",
				i, i+1, refined[i].End, refined[i+1].Start)
		}
	}
	for i, ch := range refined {
		if ch.Duration() < minTrackSeconds {
			t.Errorf("chapter %d duration %v below minimum", i, ch.Duration())
		}
	}
}

func TestRefineKeepsDeclaredTimesOutsideWindow(t *testing.T) {
	chs := []Chapter{
		{Title: "Track 1", Start: 0, End: 120},
		{Title: "Track 2", Start: 120, End: 240},
	}
	refined := Refine(chs, []silence.Point{{Position: 60.0}}, 5.0)
	if refined[0].End != 120 || refined[1].Start != 120 {
		t.Errorf("boundaries moved despite no candidate in window: %+v", refined)
	}
}
