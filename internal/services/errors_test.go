package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrDownload, "ytdlp", "download", "all selectors failed", errors.New("exit status 1"))
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("wrapped error does not match ErrDownload: %v", err)
	}
	want := "download error: ytdlp: download: all selectors failed: exit status 1"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrSilenceDetection, "chapters", "resolve", "no silence detected", nil)
	if !errors.Is(err, ErrSilenceDetection) {
		t.Fatalf("wrapped error does not match ErrSilenceDetection: %v", err)
	}
	if errors.Is(err, ErrDownload) {
		t.Error("wrapped error unexpectedly matches ErrDownload")
	}
}

func TestWrapNilMarkerDefaults(t *testing.T) {
	err := Wrap(nil, "", "", "", errors.New("boom"))
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("nil marker should default to ErrExternalTool, got %v", err)
	}
	if err.Error() != "external tool error: service failure: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
