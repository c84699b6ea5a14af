package downloads

import (
	"github.com/google/uuid"
)

// StatusKind enumerates task lifecycle states.
type StatusKind string

const (
	StatusPending    StatusKind = "pending"
	StatusInProgress StatusKind = "in_progress"
	StatusComplete   StatusKind = "complete"
	StatusFailed     StatusKind = "failed"
)

// Status is a task's current state. Percent and Message only carry meaning
// while in progress; Message doubles as the failure reason once failed.
type Status struct {
	Kind    StatusKind
	Percent int
	Message string
}

// Outcome summarizes a finished download run.
type Outcome struct {
	Artist     string
	Album      string
	OutputDir  string
	TrackPaths []string
}

// Task is one queued download. Fields are mutated only by the manager's
// foreground poll path; background work communicates through the progress
// cell and the result channel instead.
type Task struct {
	ID     uuid.UUID
	URL    string
	Artist string
	Album  string
	Status Status
	Result *Outcome
}

// TrackCount reports how many tracks the finished task produced.
func (t *Task) TrackCount() int {
	if t.Result == nil {
		return 0
	}
	return len(t.Result.TrackPaths)
}
