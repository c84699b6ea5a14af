// Package downloads runs queued download tasks one at a time in the
// background while the caller polls for progress.
package downloads

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"tracksplit/internal/services/ytdlp"
)

// Executor performs one full download-split run for a task.
type Executor interface {
	Execute(ctx context.Context, task Task, cell *ytdlp.ProgressCell) (Outcome, error)
}

type taskResult struct {
	outcome Outcome
	err     error
}

// Manager owns the task queue. At most one task is in flight; its goroutine
// reports completion through a one-slot channel guarded by an atomic flag,
// so PollOnce never blocks on an unfinished task.
type Manager struct {
	executor Executor
	logger   *slog.Logger

	mu      sync.Mutex
	tasks   []*Task
	current *Task

	cell    *ytdlp.ProgressCell
	done    atomic.Bool
	results chan taskResult
}

// NewManager builds a manager around the given executor.
func NewManager(executor Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		executor: executor,
		logger:   logger,
		cell:     ytdlp.NewProgressCell(),
		results:  make(chan taskResult, 1),
	}
}

// Add appends a pending task and returns it. Artist and album are optional
// overrides for the metadata-derived values.
func (m *Manager) Add(url, artist, album string) *Task {
	task := &Task{
		ID:     uuid.New(),
		URL:    strings.TrimSpace(url),
		Artist: strings.TrimSpace(artist),
		Album:  strings.TrimSpace(album),
		Status: Status{Kind: StatusPending},
	}
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	return task
}

// Start launches the next pending task. It reports false when a task is
// already outstanding or nothing is pending.
func (m *Manager) Start(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return false
	}

	var next *Task
	for _, task := range m.tasks {
		if task.Status.Kind == StatusPending {
			next = task
			break
		}
	}
	if next == nil {
		return false
	}

	next.Status = Status{Kind: StatusInProgress}
	m.current = next
	m.cell.Reset()
	m.done.Store(false)

	task := *next
	go func() {
		outcome, err := m.executor.Execute(ctx, task, m.cell)
		// The flag flips only once the result is one buffered send away,
		// so the foreground receive after observing it cannot block.
		m.done.Store(true)
		m.results <- taskResult{outcome: outcome, err: err}
	}()

	m.logger.Info("task started", "task", next.ID, "url", next.URL)
	return true
}

// PollOnce advances the in-flight task: it refreshes the progress snapshot,
// and when the background goroutine has finished it records the outcome.
// Returns true when a task reached a terminal state during this call. Never
// blocks on unfinished work.
func (m *Manager) PollOnce() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false
	}

	if !m.done.Load() {
		if rec, ok := m.cell.Get(); ok {
			m.current.Status.Percent = int(rec.Percentage)
			m.current.Status.Message = progressMessage(rec)
		}
		return false
	}

	res := <-m.results
	task := m.current
	m.current = nil

	if res.err != nil {
		task.Status = Status{Kind: StatusFailed, Message: res.err.Error()}
		m.logger.Error("task failed", "task", task.ID, "error", res.err)
		return true
	}

	outcome := res.outcome
	task.Status = Status{Kind: StatusComplete, Percent: 100}
	task.Result = &outcome
	if task.Artist == "" {
		task.Artist = outcome.Artist
	}
	if task.Album == "" {
		task.Album = outcome.Album
	}
	m.logger.Info("task complete",
		"task", task.ID, "tracks", len(outcome.TrackPaths), "output", outcome.OutputDir)
	return true
}

func progressMessage(rec ytdlp.Record) string {
	parts := make([]string, 0, 2)
	if rec.Speed != "" {
		parts = append(parts, rec.Speed)
	}
	if rec.ETA != "" {
		parts = append(parts, "ETA "+rec.ETA)
	}
	return strings.Join(parts, " ")
}

// Busy reports whether a task is currently in flight.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Pending reports how many tasks have not started yet.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, task := range m.tasks {
		if task.Status.Kind == StatusPending {
			count++
		}
	}
	return count
}

// OverallPercent averages progress across every queued task. Terminal tasks
// count as fully done so a failed task does not stall the total.
func (m *Manager) OverallPercent() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.tasks) == 0 {
		return 0
	}
	total := 0
	for _, task := range m.tasks {
		switch task.Status.Kind {
		case StatusComplete, StatusFailed:
			total += 100
		case StatusInProgress:
			total += task.Status.Percent
		}
	}
	return total / len(m.tasks)
}

// Tasks returns a snapshot of the queue in insertion order.
func (m *Manager) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		snapshot = append(snapshot, *task)
	}
	return snapshot
}

// Reset drops every queued task. It refuses while a task is in flight so
// the background goroutine never races a vanishing queue.
func (m *Manager) Reset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return false
	}
	m.tasks = nil
	m.cell.Reset()
	return true
}
