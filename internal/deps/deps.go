// Package deps checks that the external tools tracksplit shells out to are
// installed before any work starts.
package deps

import (
	"os/exec"
	"strings"

	"tracksplit/internal/config"
)

// Requirement names one external binary and why it is needed.
type Requirement struct {
	Name    string
	Binary  string
	Purpose string
}

// Status is the result of probing one requirement.
type Status struct {
	Requirement
	Found bool
	Path  string
}

// lookPath is swapped out by tests.
var lookPath = exec.LookPath

// Defaults lists the binaries a download run needs. The downloader binary
// follows the configuration so a custom path is probed instead of the
// default name.
func Defaults(cfg *config.Config) []Requirement {
	ytdlpBinary := "yt-dlp"
	if cfg != nil && strings.TrimSpace(cfg.Downloader.Binary) != "" {
		ytdlpBinary = cfg.Downloader.Binary
	}
	return []Requirement{
		{Name: "yt-dlp", Binary: ytdlpBinary, Purpose: "media download and metadata"},
		{Name: "ffmpeg", Binary: "ffmpeg", Purpose: "silence detection and track splitting"},
		{Name: "ffprobe", Binary: "ffprobe", Purpose: "duration probing"},
	}
}

// Check probes each requirement on PATH.
func Check(requirements []Requirement) []Status {
	statuses := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{Requirement: req}
		if path, err := lookPath(req.Binary); err == nil {
			status.Found = true
			status.Path = path
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// AllFound reports whether every probed requirement resolved.
func AllFound(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Found {
			return false
		}
	}
	return true
}

// Missing returns the names of unresolved requirements.
func Missing(statuses []Status) []string {
	var names []string
	for _, status := range statuses {
		if !status.Found {
			names = append(names, status.Name)
		}
	}
	return names
}
