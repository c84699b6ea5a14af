package silence

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	silenceStartPattern = regexp.MustCompile(`silence_start: ([\d.]+)`)
	silenceEndPattern   = regexp.MustCompile(`silence_end: ([\d.]+)`)
)

// ParseDetection extracts silence points from silencedetect diagnostic text.
// Each completed silence_start/silence_end pair becomes one point at the
// interval midpoint. An end marker with no preceding start is dropped, which
// keeps truncated tool output from corrupting the batch.
func ParseDetection(diagnostics string) []Point {
	var points []Point
	var pendingStart *float64
	for _, line := range strings.Split(diagnostics, "\n") {
		if caps := silenceStartPattern.FindStringSubmatch(line); caps != nil {
			if start, err := strconv.ParseFloat(caps[1], 64); err == nil {
				pendingStart = &start
			} else {
				pendingStart = nil
			}
			continue
		}
		caps := silenceEndPattern.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		if pendingStart != nil {
			if end, err := strconv.ParseFloat(caps[1], 64); err == nil {
				points = append(points, NewPoint(*pendingStart, end))
			}
		}
		pendingStart = nil
	}
	return points
}
