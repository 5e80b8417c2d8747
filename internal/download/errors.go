package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytget/yt-fetch/internal/model"
)

// Step names the part of a run that produced an error
type Step string

const (
	StepResolve  Step = "resolve"
	StepTransfer Step = "transfer"
	StepTag      Step = "tag"
)

// Sentinel errors matched by StepError through errors.Is
var (
	ErrResolution = errors.New("resolution failed")
	ErrTransfer   = errors.New("transfer failed")
	ErrTagging    = errors.New("tagging failed")
)

// Errors returned by task and service operations
var (
	ErrNotSucceeded = errors.New("task has not succeeded")
	ErrNoShell      = errors.New("no shell configured")
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskActive   = errors.New("task is active")
	ErrTaskInactive = errors.New("task is not active")
	ErrClosed       = errors.New("download service is closed")
	ErrNoParser     = errors.New("no playlist parser configured")
	ErrDuplicate    = errors.New("task already exists")
	ErrNotStartable = errors.New("task cannot be started")
)

// StepError wraps an error raised by a collaborator with the step it came from
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the step
func (e *StepError) Is(target error) bool {
	switch e.Step {
	case StepResolve:
		return target == ErrResolution
	case StepTransfer:
		return target == ErrTransfer
	case StepTag:
		return target == ErrTagging
	}
	return false
}

func stepError(step Step, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// classify maps the outcome of a run onto a terminal state. A run whose
// context was canceled never counts as failed.
func classify(ctx context.Context, err error) model.TaskState {
	switch {
	case err == nil:
		return model.TaskStateSucceeded
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return model.TaskStateCanceled
	default:
		return model.TaskStateFailed
	}
}

// failReason returns the collaborator's own message without the step prefix
func failReason(err error) string {
	if err == nil {
		return ""
	}
	var se *StepError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
