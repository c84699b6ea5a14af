package chapters

import (
	"context"
	"errors"
	"testing"

	"tracksplit/internal/services"
	"tracksplit/internal/silence"
)

type stubScanner struct {
	points []silence.Point
	err    error
	calls  int
}

func (s *stubScanner) ScanSilence(context.Context, string, float64, float64) ([]silence.Point, error) {
	s.calls++
	return s.points, s.err
}

func TestResolvePrefersEmbeddedMetadata(t *testing.T) {
	scanner := &stubScanner{}
	resolver := NewResolver(scanner, nil, -30, 2.0)
	src := Source{
		Embedded: []Chapter{
			{Title: "Intro", Start: 0, End: 120},
			{Title: "Outro", Start: 120, End: 300},
		},
		Description: "00:00 - Intro\n02:00 - Outro\n",
		Duration:    300,
	}
	chs, err := resolver.Resolve(context.Background(), src, "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(chs) != 2 || chs[0].Title != "Intro" {
		t.Fatalf("unexpected chapters %+v", chs)
	}
	if scanner.calls != 0 {
		t.Error("silence detection invoked despite embedded metadata")
	}
}

func TestResolveDescriptionBeatsSilence(t *testing.T) {
	scanner := &stubScanner{points: []silence.Point{{Position: 150}}}
	resolver := NewResolver(scanner, nil, -30, 2.0)
	src := Source{
		Description: `
1 - First Movement (0:00)
2 - Second Movement (2:30)
`,
		Duration: 600,
	}
	chs, err := resolver.Resolve(context.Background(), src, "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(chs) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chs))
	}
	if scanner.calls != 0 {
		t.Error("silence detection must not run when the description parses")
	}
}

func TestResolveFallsBackToSilence(t *testing.T) {
	scanner := &stubScanner{points: []silence.Point{{Position: 200}, {Position: 400}}}
	resolver := NewResolver(scanner, nil, -30, 2.0)
	src := Source{Description: "no timestamps here", Duration: 600}
	chs, err := resolver.Resolve(context.Background(), src, "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(chs) != 3 {
		t.Fatalf("got %d chapters, want 3", len(chs))
	}
	if chs[0].Title != "Track 1" || chs[2].End != 600 {
		t.Errorf("unexpected synthesized chapters %+v", chs)
	}
}

func TestResolveInvalidEmbeddedFallsThrough(t *testing.T) {
	scanner := &stubScanner{}
	resolver := NewResolver(scanner, nil, -30, 2.0)
	src := Source{
		Embedded:    []Chapter{{Title: "Broken", Start: 50, End: 10}},
		Description: "00:00 - A Side\n05:00 - B Side\n",
		Duration:    900,
	}
	chs, err := resolver.Resolve(context.Background(), src, "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(chs) != 2 || chs[0].Title != "A Side" {
		t.Fatalf("unexpected chapters %+v", chs)
	}
}

func TestResolveZeroSilencesIsHardFailure(t *testing.T) {
	resolver := NewResolver(&stubScanner{}, nil, -30, 2.0)
	_, err := resolver.Resolve(context.Background(), Source{Duration: 600}, "/tmp/a.mp3")
	if !errors.Is(err, services.ErrSilenceDetection) {
		t.Fatalf("want ErrSilenceDetection, got %v", err)
	}
}

func TestResolveScannerErrorSurfacesAsResolutionFailure(t *testing.T) {
	resolver := NewResolver(&stubScanner{err: errors.New("ffmpeg missing")}, nil, -30, 2.0)
	_, err := resolver.Resolve(context.Background(), Source{Duration: 600}, "/tmp/a.mp3")
	if !errors.Is(err, services.ErrChapterResolution) {
		t.Fatalf("want ErrChapterResolution, got %v", err)
	}
}
