package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/progress"
)

// TaskIDPrefix prefixes generated task ids
const TaskIDPrefix = "task-"

// closed is returned by Done for a task that never ran
var closed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// TaskOption configures a Task at construction
type TaskOption func(*Task)

// WithID overrides the generated task id
func WithID(id string) TaskOption {
	return func(t *Task) {
		if id != "" {
			t.id = id
		}
	}
}

// WithLimiter makes every run hold one slot of sem while it works
func WithLimiter(sem *semaphore.Weighted) TaskOption {
	return func(t *Task) {
		t.limiter = sem
	}
}

// WithContext sets the context runs derive from. Only its values (the
// logger) are used: canceling ctx does not cancel the task.
func WithContext(ctx context.Context) TaskOption {
	return func(t *Task) {
		if ctx != nil {
			t.baseCtx = context.WithoutCancel(ctx)
		}
	}
}

// WithDownloadOption binds an already resolved option
func WithDownloadOption(option model.DownloadOption) TaskOption {
	return func(t *Task) {
		t.option = &option
		t.optionBound = true
	}
}

// Task downloads one video in one format to one file. Start launches a run in
// the background; each run ends in exactly one of Succeeded, Canceled or
// Failed. All methods are safe for concurrent use.
type Task struct {
	id       string
	video    model.Video
	format   model.Format
	filePath string
	deps     Dependencies
	limiter  *semaphore.Weighted
	baseCtx  context.Context

	// serializes Start so the Active check and the arming happen as one step
	startMu sync.Mutex

	mu              sync.RWMutex
	state           model.TaskState
	err             error
	option          *model.DownloadOption
	optionBound     bool // option came from WithDownloadOption and survives failures
	operation       progress.Operation
	cancel          context.CancelFunc
	cancelRequested bool
	done            chan struct{}
	progress        float64
	runs            int
	startedAt       time.Time
	finishedAt      time.Time

	onEnded    func(*Task)
	onProgress func(*Task, float64)
}

// NewTask creates an idle task. video, format and filePath never change.
func NewTask(video model.Video, format model.Format, filePath string, deps Dependencies, opts ...TaskOption) *Task {
	t := &Task{
		id:       generateTaskID(),
		video:    video,
		format:   format,
		filePath: filePath,
		deps:     deps,
		baseCtx:  context.Background(),
		state:    model.TaskStateIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the task id
func (t *Task) ID() string { return t.id }

// Video returns the source video
func (t *Task) Video() model.Video { return t.video }

// Format returns the requested format
func (t *Task) Format() model.Format { return t.format }

// FilePath returns the destination path
func (t *Task) FilePath() string { return t.filePath }

// FileName returns the base name of the destination path
func (t *Task) FileName() string { return filepath.Base(t.filePath) }

// SetEndedCallback sets the callback fired once per run when it reaches a
// terminal state. It runs on the task's goroutine after the run's resources
// have been released.
func (t *Task) SetEndedCallback(callback func(*Task)) {
	t.mu.Lock()
	t.onEnded = callback
	t.mu.Unlock()
}

// SetProgressCallback sets the callback fired on every effective progress report
func (t *Task) SetProgressCallback(callback func(*Task, float64)) {
	t.mu.Lock()
	t.onProgress = callback
	t.mu.Unlock()
}

// State returns the current state
func (t *Task) State() model.TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Task) IsActive() bool     { return t.State() == model.TaskStateActive }
func (t *Task) IsSuccessful() bool { return t.State() == model.TaskStateSucceeded }
func (t *Task) IsCanceled() bool   { return t.State() == model.TaskStateCanceled }
func (t *Task) IsFailed() bool     { return t.State() == model.TaskStateFailed }

// FailReason returns the failure message; ok is false unless the task failed
func (t *Task) FailReason() (reason string, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state != model.TaskStateFailed {
		return "", false
	}
	return failReason(t.err), true
}

// Err returns the *StepError of a failed task, nil otherwise
func (t *Task) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// DownloadOption returns a copy of the resolved option, if any
func (t *Task) DownloadOption() (model.DownloadOption, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.option == nil {
		return model.DownloadOption{}, false
	}
	return *t.option, true
}

// Progress returns the progress of the current or last run
func (t *Task) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Snapshot returns a consistent copy of the task for display
func (t *Task) Snapshot() model.DownloadTask {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := model.DownloadTask{
		ID:         t.id,
		Video:      t.video,
		Format:     t.format,
		FilePath:   t.filePath,
		State:      t.state,
		Progress:   t.progress,
		Percent:    int(t.progress * 100),
		Runs:       t.runs,
		StartedAt:  t.startedAt,
		FinishedAt: t.finishedAt,
	}
	if t.state == model.TaskStateFailed {
		snap.FailReason = failReason(t.err)
	}
	if t.option != nil {
		option := *t.option
		snap.Option = &option
	}
	return snap
}

func (t *Task) CanStart() bool { return !t.IsActive() }

func (t *Task) CanCancel() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state == model.TaskStateActive && !t.cancelRequested
}

// CanRestart is true for a finished task that did not succeed. A succeeded
// download is not restarted so the file is not fetched again by accident.
func (t *Task) CanRestart() bool {
	state := t.State()
	return state != model.TaskStateActive && state != model.TaskStateSucceeded
}

func (t *Task) CanShowFile() bool { return t.IsSuccessful() }
func (t *Task) CanOpenFile() bool { return t.IsSuccessful() }

// Done returns a channel closed when the current run has ended and released
// its resources. For a task that never ran the channel is already closed.
func (t *Task) Done() <-chan struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.done == nil {
		return closed
	}
	return t.done
}

// Wait blocks until the current run ends or ctx is done
func (t *Task) Wait(ctx context.Context) (model.TaskState, error) {
	select {
	case <-t.Done():
		return t.State(), nil
	case <-ctx.Done():
		return t.State(), ctx.Err()
	}
}

// Start launches a new run in the background and returns immediately. It is
// a no-op returning false while a run is active.
func (t *Task) Start() bool {
	t.startMu.Lock()
	defer t.startMu.Unlock()

	if t.IsActive() {
		return false
	}

	// Acquired outside t.mu: sinks may notify observers synchronously
	var op progress.Operation
	if t.deps.Progress != nil {
		op = t.deps.Progress.CreateOperation()
	} else {
		op = progress.NewManager().CreateOperation()
	}
	ctx, cancel := context.WithCancel(t.baseCtx)
	done := make(chan struct{})

	t.mu.Lock()
	t.transitionToLocked(model.TaskStateActive, nil)
	t.operation = op
	t.cancel = cancel
	t.cancelRequested = false
	t.done = done
	t.progress = 0
	t.runs++
	run := t.runs
	t.startedAt = time.Now()
	t.finishedAt = time.Time{}
	t.mu.Unlock()

	go t.run(ctx, cancel, op, run, done)
	return true
}

// Restart starts a new run if CanRestart allows it
func (t *Task) Restart() bool {
	if !t.CanRestart() {
		return false
	}
	return t.Start()
}

// Cancel asks the active run to stop. The state changes only once the run
// observes the signal. Returns false when there is nothing to cancel.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	if t.state != model.TaskStateActive || t.cancelRequested || t.cancel == nil {
		t.mu.Unlock()
		return false
	}
	t.cancelRequested = true
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	return true
}

// ShowFile reveals the downloaded file in the system file manager
func (t *Task) ShowFile() error {
	if !t.CanShowFile() {
		return ErrNotSucceeded
	}
	if t.deps.Shell == nil {
		return ErrNoShell
	}
	return t.deps.Shell.RevealFile(t.filePath)
}

// OpenFile opens the downloaded file with the default application
func (t *Task) OpenFile() error {
	if !t.CanOpenFile() {
		return ErrNotSucceeded
	}
	if t.deps.Shell == nil {
		return ErrNoShell
	}
	return t.deps.Shell.OpenFile(t.filePath)
}

// run is the body of one run. It owns ctx, cancel and op until it returns.
func (t *Task) run(ctx context.Context, cancel context.CancelFunc, op progress.Operation, run int, done chan struct{}) {
	logger := t.logger(run)
	logger.Info().Str("file", t.filePath).Msg("download started")

	err := t.execute(logging.WithContext(ctx, logger), &reporter{task: t, op: op, run: run})
	state := classify(ctx, err)

	// Release scoped resources before the run is reported finished
	cancel()
	op.Dispose()

	switch state {
	case model.TaskStateFailed:
		logger.Error().Err(err).Msg("download failed")
	case model.TaskStateCanceled:
		logger.Info().Msg("download canceled")
	default:
		logger.Info().Msg("download finished")
	}

	t.finish(state, err, done)
}

func (t *Task) execute(ctx context.Context, sink ProgressReporter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during download: %v", r)
		}
	}()

	if t.limiter != nil {
		if err := t.limiter.Acquire(ctx, 1); err != nil {
			return err
		}
		defer t.limiter.Release(1)
	}

	option, err := t.resolve(ctx)
	if err != nil {
		return stepError(StepResolve, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if t.deps.Transfer == nil {
		return stepError(StepTransfer, errors.New("no transfer configured"))
	}
	if err := t.deps.Transfer.Transfer(ctx, option, t.filePath, sink); err != nil {
		return stepError(StepTransfer, err)
	}

	if t.deps.Tagger == nil || t.deps.Tags == nil || !t.deps.Tags.ShouldInjectTags() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.deps.Tagger.InjectTags(ctx, t.video, t.format, t.filePath); err != nil {
		return stepError(StepTag, err)
	}
	return nil
}

// resolve returns the bound option, resolving and binding it on first use
func (t *Task) resolve(ctx context.Context) (model.DownloadOption, error) {
	if option, ok := t.DownloadOption(); ok {
		return option, nil
	}
	if err := ctx.Err(); err != nil {
		return model.DownloadOption{}, err
	}
	if t.deps.Resolver == nil {
		return model.DownloadOption{}, errors.New("no resolver configured")
	}

	option, err := t.deps.Resolver.Resolve(ctx, t.video.ID, t.format)
	if err != nil {
		return model.DownloadOption{}, err
	}
	if option == nil {
		return model.DownloadOption{}, fmt.Errorf("no download option for %s in %s", t.video.ID, t.format)
	}

	t.mu.Lock()
	t.option = option
	t.mu.Unlock()

	logging.FromContext(ctx).Debug().Stringer("option", option).Msg("download option resolved")
	return *option, nil
}

// finish tears the run down and moves the task to its terminal state
func (t *Task) finish(state model.TaskState, err error, done chan struct{}) {
	t.mu.Lock()
	t.operation = nil
	t.cancel = nil
	t.cancelRequested = false
	t.finishedAt = time.Now()
	switch {
	case state == model.TaskStateSucceeded:
		t.progress = 1
	case state == model.TaskStateFailed && !t.optionBound:
		// a failed run may have been caused by a stale descriptor
		t.option = nil
	}
	notify := t.transitionToLocked(state, err)
	callback := t.onEnded
	t.mu.Unlock()

	if notify && callback != nil {
		callback(t)
	}
	close(done)
}

// transitionToLocked is the only place state changes. It reports whether
// the transition entered a terminal state and must be notified.
func (t *Task) transitionToLocked(next model.TaskState, err error) bool {
	prev := t.state
	t.state = next
	if next == model.TaskStateFailed {
		t.err = err
	} else {
		t.err = nil
	}
	return next.IsFinished() && !prev.IsFinished()
}

func (t *Task) reportProgress(run int, value float64) {
	t.mu.Lock()
	if t.runs != run || t.state != model.TaskStateActive || value <= t.progress {
		t.mu.Unlock()
		return
	}
	t.progress = value
	callback := t.onProgress
	t.mu.Unlock()

	if callback != nil {
		callback(t, value)
	}
}

func (t *Task) logger(run int) zerolog.Logger {
	return logging.FromContext(t.baseCtx).With().
		Str("task_id", t.id).
		Str("video_id", t.video.ID).
		Str("format", t.format.String()).
		Int("run", run).
		Logger()
}

// reporter forwards transfer progress to the run's operation and the task
type reporter struct {
	task *Task
	op   progress.Operation
	run  int
}

func (r *reporter) Report(fraction float64) {
	r.op.Report(fraction)
	r.task.reportProgress(r.run, r.op.Progress())
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
