package chapters

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts "HH:MM:SS", "MM:SS" or bare seconds into seconds.
func ParseTimestamp(timestamp string) (float64, error) {
	parts := strings.Split(timestamp, ":")
	fields := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
		}
		fields = append(fields, value)
	}
	switch len(fields) {
	case 1:
		return fields[0], nil
	case 2:
		return fields[0]*60 + fields[1], nil
	case 3:
		return fields[0]*3600 + fields[1]*60 + fields[2], nil
	default:
		return 0, fmt.Errorf("parse timestamp %q: unsupported format", timestamp)
	}
}

// FormatTimestamp renders seconds as "MM:SS", or "HH:MM:SS" past an hour.
func FormatTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
