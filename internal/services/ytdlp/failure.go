package ytdlp

import "strings"

// failureTailLimit bounds how much raw stderr is quoted when no recognizable
// error line is present.
const failureTailLimit = 200

// ExtractFailureMessage builds a user-facing message from the raw stderr of
// a failed download. The first HTTP-error or ERROR: line wins; an age
// warning is reported as an outdated install; otherwise the tail of the raw
// text is quoted verbatim.
func ExtractFailureMessage(diagnostics string) string {
	for _, line := range strings.Split(diagnostics, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "http error") || strings.HasPrefix(line, "ERROR: ") {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "ERROR: "))
		}
	}
	if strings.Contains(strings.ToLower(diagnostics), "older than 90 days") {
		return "yt-dlp is outdated (older than 90 days); the site may be rejecting downloads"
	}
	trimmed := strings.TrimSpace(diagnostics)
	if trimmed == "" {
		return "yt-dlp failed with no diagnostic output"
	}
	if len(trimmed) > failureTailLimit {
		return "yt-dlp failed, last output: " + strings.TrimSpace(trimmed[len(trimmed)-failureTailLimit:])
	}
	return "yt-dlp failed: " + trimmed
}

// IsOutdatedFailure reports whether diagnostic text carries the outdated
// tool signature: an explicit age warning, or an HTTP-403-class failure
// while the installed version is known to be stale.
func IsOutdatedFailure(diagnostics string, versionStale bool) bool {
	lower := strings.ToLower(diagnostics)
	if strings.Contains(lower, "older than 90 days") {
		return true
	}
	if strings.Contains(lower, "http error 403") || strings.Contains(lower, "forbidden") {
		return versionStale
	}
	return false
}

// ClassifyMetadataError maps a raw metadata-fetch failure to a friendly
// message plus an optional remediation hint.
func ClassifyMetadataError(diagnostics string, cookiesConfigured bool) (message, hint string) {
	lower := strings.ToLower(diagnostics)

	switch {
	case strings.Contains(lower, "members-only"),
		strings.Contains(lower, "this video is only available"),
		strings.Contains(lower, "join this channel"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "sign in to confirm"):
		if cookiesConfigured {
			return "this video requires authentication (member-only or private content)",
				"configured cookies may have expired; export fresh cookies from your browser"
		}
		return "this video requires authentication (member-only or private content)",
			"configure cookies_from_browser or a cookies file in the config"
	case strings.Contains(lower, "age-restricted"), strings.Contains(lower, "age restricted"):
		return "this video is age-restricted",
			"authenticate with an age-verified account via browser cookies"
	case strings.Contains(lower, "not available in your country"),
		strings.Contains(lower, "geo-restricted"),
		strings.Contains(lower, "blocked in your country"):
		return "this video is not available in your country (geo-restricted)", ""
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "has been removed"),
		strings.Contains(lower, "this video is no longer available"):
		return "this video is no longer available (deleted or made private)", ""
	case strings.Contains(lower, "unable to download"),
		strings.Contains(lower, "http error"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "timeout"):
		return "network error while fetching metadata", "check the connection and retry"
	case strings.Contains(lower, "invalid url"), strings.Contains(lower, "unsupported url"):
		return "invalid or unsupported video URL", ""
	}

	cleaned := strings.NewReplacer("ERROR:", "", "[youtube]", "", "[download]", "").
		Replace(strings.Join(firstLines(diagnostics, 3), " "))
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > failureTailLimit {
		cleaned = cleaned[:failureTailLimit-3] + "..."
	}
	if cleaned == "" {
		cleaned = "yt-dlp failed with an unknown error"
	}
	return cleaned, ""
}

func firstLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
