package silence

import "testing"

func TestNewPointMidpoint(t *testing.T) {
	tests := []struct {
		start, end float64
		want       float64
	}{
		{10.0, 11.0, 10.5},
		{10.0, 14.0, 12.0},
		{0.0, 0.0, 0.0},
	}
	for _, tt := range tests {
		if got := NewPoint(tt.start, tt.end).Position; got != tt.want {
			t.Errorf("NewPoint(%v, %v).Position = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestNearest(t *testing.T) {
	points := []Point{
		NewPoint(0.0, 1.0),   // 0.5
		NewPoint(9.5, 10.5),  // 10.0
		NewPoint(19.0, 20.0), // 19.5
	}

	if p, ok := Nearest(points, 10.0, 2.0); !ok || p.Position != 10.0 {
		t.Fatalf("Nearest(10.0) = %v, %v; want 10.0, true", p.Position, ok)
	}
	if p, ok := Nearest(points, 9.8, 2.0); !ok || p.Position != 10.0 {
		t.Fatalf("Nearest(9.8) = %v, %v; want 10.0, true", p.Position, ok)
	}
	if _, ok := Nearest(points, 15.0, 2.0); ok {
		t.Fatal("Nearest(15.0) found a point outside the window")
	}
	if _, ok := Nearest(nil, 10.0, 2.0); ok {
		t.Fatal("Nearest over empty batch found a point")
	}
}

func TestNearestEquidistantPrefersEarlier(t *testing.T) {
	points := []Point{{Position: 12.0}, {Position: 8.0}}
	p, ok := Nearest(points, 10.0, 5.0)
	if !ok || p.Position != 8.0 {
		t.Fatalf("Nearest(10.0) = %v, %v; want earlier point 8.0", p.Position, ok)
	}
}

func TestParseDetection(t *testing.T) {
	diag := `[silencedetect @ 0x55] silence_start: 12.4
[silencedetect @ 0x55] silence_end: 13.6 | silence_duration: 1.2
[silencedetect @ 0x55] silence_start: 40.0
[silencedetect @ 0x55] silence_end: 42.0 | silence_duration: 2.0
`
	points := ParseDetection(diag)
	if len(points) != 2 {
		t.Fatalf("ParseDetection returned %d points, want 2", len(points))
	}
	if points[0].Position != 13.0 {
		t.Errorf("first point = %v, want 13.0", points[0].Position)
	}
	if points[1].Position != 41.0 {
		t.Errorf("second point = %v, want 41.0", points[1].Position)
	}
}

func TestParseDetectionOrphanEnd(t *testing.T) {
	diag := `[silencedetect @ 0x55] silence_end: 13.6 | silence_duration: 1.2
[silencedetect @ 0x55] silence_start: 40.0
[silencedetect @ 0x55] silence_end: 42.0
`
	points := ParseDetection(diag)
	if len(points) != 1 {
		t.Fatalf("ParseDetection returned %d points, want 1", len(points))
	}
	if points[0].Position != 41.0 {
		t.Errorf("point = %v, want 41.0", points[0].Position)
	}
}

func TestParseDetectionNoMarkers(t *testing.T) {
	if points := ParseDetection("frame= 100 fps=25 size=N/A time=00:00:04.00"); len(points) != 0 {
		t.Fatalf("ParseDetection returned %d points, want 0", len(points))
	}
}
