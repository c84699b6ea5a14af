package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDownload marks failures of the external downloader after all
	// retry strategies are exhausted.
	ErrDownload = errors.New("download error")
	// ErrChapterResolution marks total exhaustion of the chapter cascade.
	ErrChapterResolution = errors.New("chapter resolution error")
	// ErrSilenceDetection marks an analysis run that found zero silences.
	ErrSilenceDetection = errors.New("silence detection error")
	// ErrToolInvocation marks a process that could not even be spawned.
	ErrToolInvocation = errors.New("tool invocation error")
	// ErrExternalTool marks a tool that ran but exited unsuccessfully.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
