package ytdlp

import (
	"math"
	"strings"
	"testing"
)

func TestParseProgressLineExplicitPercent(t *testing.T) {
	line := "[download]  45.0% of  120.00MiB at  2.34MiB/s ETA 00:12"
	rec, ok := ParseProgressLine(line)
	if !ok {
		t.Fatalf("expected line to parse: %q", line)
	}
	if rec.Percentage != 45.0 {
		t.Fatalf("percentage = %v, want 45.0", rec.Percentage)
	}
	if rec.Total != "120.00 MiB" {
		t.Fatalf("total = %q, want %q", rec.Total, "120.00 MiB")
	}
	if rec.Speed != "2.34 MiB/s" {
		t.Fatalf("speed = %q, want %q", rec.Speed, "2.34 MiB/s")
	}
	if rec.ETA != "00:12" {
		t.Fatalf("eta = %q, want %q", rec.ETA, "00:12")
	}
}

func TestParseProgressLineDerivedPercent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want float64
	}{
		{
			name: "same unit",
			line: "[download]  23.5MiB of  52.3MiB at  1.10MiB/s ETA 00:26",
			want: 23.5 / 52.3 * 100,
		},
		{
			name: "mixed GiB and MiB",
			line: "[download]  512.00MiB of  1.00GiB at  9.80MiB/s ETA 00:53",
			want: 50.0,
		},
		{
			name: "KiB downloaded",
			line: "[download]  512.00KiB of  2.00MiB at  256.00KiB/s ETA 00:06",
			want: 25.0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, ok := ParseProgressLine(tc.line)
			if !ok {
				t.Fatalf("expected line to parse: %q", tc.line)
			}
			if math.Abs(rec.Percentage-tc.want) > 0.1 {
				t.Fatalf("percentage = %v, want about %v", rec.Percentage, tc.want)
			}
		})
	}
}

func TestParseProgressLineRejections(t *testing.T) {
	lines := []string{
		"[youtube] abc123: Downloading webpage",
		"[download] Destination: audio.m4a",
		"[download] 100% of  120.00MiB in 00:51",
		"plain text without markers",
		"",
	}
	for _, line := range lines {
		if rec, ok := ParseProgressLine(line); ok {
			t.Fatalf("line %q parsed unexpectedly: %+v", line, rec)
		}
	}
}

func TestParseProgressLineCapsNearCompletion(t *testing.T) {
	rec, ok := ParseProgressLine("[download]  99.99% of  120.00MiB at  2.34MiB/s ETA 00:01")
	if !ok {
		t.Fatal("expected line to parse")
	}
	if rec.Percentage != 99.9 {
		t.Fatalf("percentage = %v, want capped 99.9", rec.Percentage)
	}
}

func TestProgressCell(t *testing.T) {
	cell := NewProgressCell()
	if _, ok := cell.Get(); ok {
		t.Fatal("fresh cell should be empty")
	}
	cell.Set(Record{Percentage: 12.5})
	rec, ok := cell.Get()
	if !ok || rec.Percentage != 12.5 {
		t.Fatalf("got %+v ok=%v, want 12.5", rec, ok)
	}
	cell.Reset()
	if _, ok := cell.Get(); ok {
		t.Fatal("reset cell should be empty")
	}
}

func TestStreamReaderPublishesWithHysteresis(t *testing.T) {
	cell := NewProgressCell()
	reader := &streamReader{cell: cell}
	input := "[download]  10.0% of  50.00MiB at  1.00MiB/s ETA 00:40\r" +
		"[download]  10.2% of  50.00MiB at  1.00MiB/s ETA 00:39\r" +
		"[download]  11.0% of  50.00MiB at  1.00MiB/s ETA 00:35\n"
	reader.consume(strings.NewReader(input))

	rec, ok := cell.Get()
	if !ok {
		t.Fatal("expected a published record")
	}
	if rec.Percentage != 11.0 {
		t.Fatalf("percentage = %v, want 11.0 (10.2 suppressed, 11.0 published)", rec.Percentage)
	}
	if got := reader.text(); !strings.Contains(got, "10.2%") {
		t.Fatalf("raw text should retain every line, got %q", got)
	}
}
