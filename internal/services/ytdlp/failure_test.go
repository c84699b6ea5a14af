package ytdlp

import (
	"strings"
	"testing"
)

func TestExtractFailureMessage(t *testing.T) {
	tests := []struct {
		name        string
		diagnostics string
		want        string
	}{
		{
			name:        "error line wins",
			diagnostics: "[youtube] abc: Downloading webpage\nERROR: unable to download video data: HTTP Error 404\nmore noise",
			want:        "unable to download video data: HTTP Error 404",
		},
		{
			name:        "http error without prefix",
			diagnostics: "WARNING: something\nretrying after HTTP Error 403: Forbidden",
			want:        "retrying after HTTP Error 403: Forbidden",
		},
		{
			name:        "age warning",
			diagnostics: "WARNING: your version is older than 90 days, consider updating",
			want:        "yt-dlp is outdated (older than 90 days); the site may be rejecting downloads",
		},
		{
			name:        "empty output",
			diagnostics: "   \n  ",
			want:        "yt-dlp failed with no diagnostic output",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractFailureMessage(tc.diagnostics); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractFailureMessageQuotesTail(t *testing.T) {
	diagnostics := strings.Repeat("x", 300) + " final words"
	got := ExtractFailureMessage(diagnostics)
	if !strings.HasPrefix(got, "yt-dlp failed, last output: ") {
		t.Fatalf("got %q, want tail quote", got)
	}
	if !strings.HasSuffix(got, "final words") {
		t.Fatalf("got %q, want it to end with the last output", got)
	}
}

func TestIsOutdatedFailure(t *testing.T) {
	tests := []struct {
		name         string
		diagnostics  string
		versionStale bool
		want         bool
	}{
		{
			name:        "explicit age warning",
			diagnostics: "WARNING: yt-dlp is older than 90 days",
			want:        true,
		},
		{
			name:         "403 with stale version",
			diagnostics:  "ERROR: HTTP Error 403: Forbidden",
			versionStale: true,
			want:         true,
		},
		{
			name:        "403 with fresh version",
			diagnostics: "ERROR: HTTP Error 403: Forbidden",
			want:        false,
		},
		{
			name:         "unrelated failure",
			diagnostics:  "ERROR: HTTP Error 404: Not Found",
			versionStale: true,
			want:         false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOutdatedFailure(tc.diagnostics, tc.versionStale); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyMetadataError(t *testing.T) {
	tests := []struct {
		name        string
		diagnostics string
		cookies     bool
		wantMessage string
		wantHint    bool
	}{
		{
			name:        "members only without cookies",
			diagnostics: "ERROR: [youtube] abc: Join this channel to get access to members-only content",
			wantMessage: "this video requires authentication (member-only or private content)",
			wantHint:    true,
		},
		{
			name:        "members only with cookies",
			diagnostics: "ERROR: members-only content",
			cookies:     true,
			wantMessage: "this video requires authentication (member-only or private content)",
			wantHint:    true,
		},
		{
			name:        "geo restricted",
			diagnostics: "ERROR: The uploader has not made this video not available in your country",
			wantMessage: "this video is not available in your country (geo-restricted)",
		},
		{
			name:        "removed",
			diagnostics: "ERROR: Video unavailable",
			wantMessage: "this video is no longer available (deleted or made private)",
		},
		{
			name:        "network",
			diagnostics: "ERROR: unable to download webpage: connection reset",
			wantMessage: "network error while fetching metadata",
			wantHint:    true,
		},
		{
			name:        "unsupported url",
			diagnostics: "ERROR: Unsupported URL: https://example.invalid",
			wantMessage: "invalid or unsupported video URL",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			message, hint := ClassifyMetadataError(tc.diagnostics, tc.cookies)
			if message != tc.wantMessage {
				t.Fatalf("message = %q, want %q", message, tc.wantMessage)
			}
			if tc.wantHint && hint == "" {
				t.Fatal("expected a remediation hint")
			}
			if !tc.wantHint && hint != "" {
				t.Fatalf("unexpected hint %q", hint)
			}
		})
	}
}

func TestClassifyMetadataErrorFallthrough(t *testing.T) {
	message, hint := ClassifyMetadataError("ERROR: [youtube] something nobody anticipated", false)
	if hint != "" {
		t.Fatalf("unexpected hint %q", hint)
	}
	if !strings.Contains(message, "something nobody anticipated") {
		t.Fatalf("message = %q, want cleaned raw text", message)
	}
	if strings.Contains(message, "ERROR:") || strings.Contains(message, "[youtube]") {
		t.Fatalf("message = %q, want tool markers stripped", message)
	}
}
