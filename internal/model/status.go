package model

// TaskState is the single lifecycle tag of a download task
type TaskState string

const (
	// TaskStateIdle means the task was created but never started
	TaskStateIdle TaskState = "Idle"

	// TaskStateActive means a run is in flight
	TaskStateActive TaskState = "Active"

	// TaskStateSucceeded means the last run finished successfully
	TaskStateSucceeded TaskState = "Succeeded"

	// TaskStateCanceled means the last run was canceled by the user
	TaskStateCanceled TaskState = "Canceled"

	// TaskStateFailed means the last run failed with an error
	TaskStateFailed TaskState = "Failed"
)

// String returns the string representation of TaskState
func (ts TaskState) String() string {
	return string(ts)
}

// IsActive returns true if a run is in flight
func (ts TaskState) IsActive() bool {
	return ts == TaskStateActive
}

// IsFinished returns true if the task is in a terminal state (succeeded, canceled, or failed)
func (ts TaskState) IsFinished() bool {
	return ts == TaskStateSucceeded || ts == TaskStateCanceled || ts == TaskStateFailed
}

// IsValid reports whether ts is one of the known states
func (ts TaskState) IsValid() bool {
	switch ts {
	case TaskStateIdle, TaskStateActive, TaskStateSucceeded, TaskStateCanceled, TaskStateFailed:
		return true
	}
	return false
}
