package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Record is a point-in-time download progress snapshot. Later records
// overwrite earlier ones; absence means the download has not started or was
// just reset.
type Record struct {
	// Percentage is 0..100, capped below 100 so completion is only ever
	// signaled by process exit.
	Percentage float64
	Downloaded string
	Total      string
	Speed      string
	ETA        string
}

var (
	percentPattern = regexp.MustCompile(`(\d+\.\d+)%`)
	sizePattern    = regexp.MustCompile(`(\d+\.\d+)(GiB|MiB|KiB)`)
	speedPattern   = regexp.MustCompile(`at\s+([\d.]+)(GiB|MiB|KiB)/s`)
	etaPattern     = regexp.MustCompile(`ETA\s+(\d{2}:\d{2})`)
)

// maxReportedPercent avoids falsely signaling completion before the process
// exits.
const maxReportedPercent = 99.9

// ParseProgressLine turns one yt-dlp diagnostic line into a progress record.
// Only lines tagged [download] that are not the terminal 100% line are
// eligible. The percentage is read directly when present, otherwise derived
// from the downloaded and total size tokens. Malformed or irrelevant lines
// report ok=false, never an error; the parser is purely advisory.
func ParseProgressLine(line string) (Record, bool) {
	if !strings.Contains(line, "[download]") || strings.Contains(line, "100%") {
		return Record{}, false
	}

	// The speed token would otherwise match the size pattern too.
	sizes := sizePattern.FindAllStringSubmatch(speedPattern.ReplaceAllString(line, ""), -1)

	var percentage float64
	if caps := percentPattern.FindStringSubmatch(line); caps != nil {
		parsed, err := strconv.ParseFloat(caps[1], 64)
		if err != nil {
			return Record{}, false
		}
		percentage = parsed
	} else {
		if len(sizes) < 2 {
			return Record{}, false
		}
		downloaded, err1 := strconv.ParseFloat(sizes[0][1], 64)
		total, err2 := strconv.ParseFloat(sizes[1][1], 64)
		if err1 != nil || err2 != nil || total == 0 {
			return Record{}, false
		}
		percentage = downloaded * unitMiB(sizes[0][2]) / (total * unitMiB(sizes[1][2])) * 100
	}
	if percentage > maxReportedPercent {
		percentage = maxReportedPercent
	}

	record := Record{Percentage: percentage, Downloaded: "?", Total: "?"}
	switch {
	case len(sizes) >= 2:
		record.Downloaded = sizes[0][1] + " " + sizes[0][2]
		record.Total = sizes[1][1] + " " + sizes[1][2]
	case len(sizes) == 1:
		// "NN.N% of SIZE" lines carry only the total.
		record.Total = sizes[0][1] + " " + sizes[0][2]
	}
	if caps := speedPattern.FindStringSubmatch(line); caps != nil {
		record.Speed = caps[1] + " " + caps[2] + "/s"
	}
	if caps := etaPattern.FindStringSubmatch(line); caps != nil {
		record.ETA = caps[1]
	}
	return record, true
}

func unitMiB(unit string) float64 {
	switch unit {
	case "GiB":
		return 1024
	case "KiB":
		return 1.0 / 1024
	default:
		return 1
	}
}

// ProgressCell is the shared progress slot between a download in flight and
// its observer. The mutex is held only for the duration of a single read or
// write, never across I/O.
type ProgressCell struct {
	mu  sync.Mutex
	rec *Record
}

// NewProgressCell returns an empty cell.
func NewProgressCell() *ProgressCell {
	return &ProgressCell{}
}

// Set publishes a new snapshot, replacing any previous one.
func (c *ProgressCell) Set(rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = &rec
}

// Get returns the latest snapshot, if any.
func (c *ProgressCell) Get() (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rec == nil {
		return Record{}, false
	}
	return *c.rec, true
}

// Reset clears the cell back to the not-started state.
func (c *ProgressCell) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = nil
}
