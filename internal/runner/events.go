package runner

import (
	"github.com/ytget/course-dl/internal/model"
)

// EventType identifies what happened to a task
type EventType int

const (
	// EventUntouched is sent for tasks that never ran: already done,
	// skipped, failed during resolution or not admitted after a stop
	EventUntouched EventType = iota
	// EventStarted is sent when a worker picks up a task
	EventStarted
	// EventProgress carries a completion fraction
	EventProgress
	// EventRetry is sent before a failed attempt is repeated
	EventRetry
	// EventFinished is sent when a worker is done with a task
	EventFinished
)

// Event is a message from a worker to the aggregator. Observers must read
// the event's fields rather than the task's mutable ones.
type Event struct {
	Type     EventType
	Task     *model.DownloadTask
	Status   model.TaskStatus
	Fraction float64
	Attempt  int
	Err      error
}

// Failure is a task that ended Failed and why
type Failure struct {
	Task   *model.DownloadTask
	Reason string
	Err    error
}

// Summary is the outcome of a run
type Summary struct {
	Succeeded  []*model.DownloadTask
	Skipped    []*model.DownloadTask
	Failed     []Failure
	NotStarted []*model.DownloadTask
	// Fatal is the first error that stopped the run
	Fatal error
	// Canceled is set when the caller's context ended the run
	Canceled bool
}

// Total returns the number of tasks accounted for
func (s *Summary) Total() int {
	return len(s.Succeeded) + len(s.Skipped) + len(s.Failed) + len(s.NotStarted)
}

// OK reports whether the run ended without a fatal error
func (s *Summary) OK() bool {
	return s.Fatal == nil
}

func (s *Summary) record(ev Event) {
	switch ev.Status {
	case model.TaskStatusDone:
		if ev.Type == EventFinished {
			s.Succeeded = append(s.Succeeded, ev.Task)
		} else {
			s.Skipped = append(s.Skipped, ev.Task)
		}
	case model.TaskStatusSkipped:
		s.Skipped = append(s.Skipped, ev.Task)
	case model.TaskStatusFailed:
		reason := ev.Task.LastError
		if ev.Err != nil {
			reason = ev.Err.Error()
		}
		s.Failed = append(s.Failed, Failure{Task: ev.Task, Reason: reason, Err: ev.Err})
		if s.Fatal == nil && model.IsFatal(ev.Err) {
			s.Fatal = ev.Err
		}
	default:
		s.NotStarted = append(s.NotStarted, ev.Task)
	}
}
