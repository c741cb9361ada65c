package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means nothing usable is on disk yet
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusSkipped means the task will not run (unsupported content)
	TaskStatusSkipped TaskStatus = "Skipped"

	// TaskStatusResumed means some video segments are already on disk
	TaskStatusResumed TaskStatus = "Resumed"

	// TaskStatusFetching means the task is being executed by a worker
	TaskStatusFetching TaskStatus = "Fetching"

	// TaskStatusDone means the final file is present
	TaskStatusDone TaskStatus = "Done"

	// TaskStatusFailed means the task failed with an error
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if a worker currently owns the task
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusFetching
}

// IsRunnable returns true if the task still has work to do
func (ts TaskStatus) IsRunnable() bool {
	return ts == TaskStatusPending || ts == TaskStatusResumed
}

// IsFinished returns true if the task is in a terminal state (done, skipped, or failed)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusDone || ts == TaskStatusSkipped || ts == TaskStatusFailed
}
