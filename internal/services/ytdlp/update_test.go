package ytdlp

import (
	"path/filepath"
	"testing"
	"time"
)

func TestParseVersionDate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	info, ok := parseVersionDate("2025.05.22", now)
	if !ok {
		t.Fatal("expected version to parse")
	}
	if info.Outdated {
		t.Fatalf("a ten day old build should not be outdated: %+v", info)
	}

	info, ok = parseVersionDate("2024.11.04", now)
	if !ok {
		t.Fatal("expected version to parse")
	}
	if !info.Outdated {
		t.Fatalf("a build over 90 days old should be outdated: %+v", info)
	}

	if _, ok := parseVersionDate("nightly", now); ok {
		t.Fatal("non date version should not parse")
	}
}

func TestFileStampsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamps", "ytdlp-update")
	stamps := NewFileStamps(path)

	if _, ok := stamps.Last(); ok {
		t.Fatal("missing stamp file should report no previous update")
	}

	marked := time.Date(2025, time.March, 10, 12, 30, 0, 0, time.UTC)
	if err := stamps.Mark(marked); err != nil {
		t.Fatalf("mark: %v", err)
	}

	last, ok := stamps.Last()
	if !ok {
		t.Fatal("expected a recorded stamp")
	}
	if !last.Equal(marked) {
		t.Fatalf("last = %v, want %v", last, marked)
	}
}

func TestShouldCheck(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	interval := 7 * 24 * time.Hour

	path := filepath.Join(t.TempDir(), "stamp")
	stamps := NewFileStamps(path)

	if !ShouldCheck(stamps, interval, now) {
		t.Fatal("missing stamp should allow a check")
	}

	if err := stamps.Mark(now.Add(-2 * 24 * time.Hour)); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if ShouldCheck(stamps, interval, now) {
		t.Fatal("recent stamp should suppress the check")
	}

	if err := stamps.Mark(now.Add(-8 * 24 * time.Hour)); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !ShouldCheck(stamps, interval, now) {
		t.Fatal("stale stamp should allow a check")
	}

	if ShouldCheck(nil, interval, now) {
		t.Fatal("nil store never allows checks")
	}
}
