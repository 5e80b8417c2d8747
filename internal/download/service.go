package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
)

// Parallel download bounds
const (
	DefaultMaxParallel = 2
	MaxParallelLimit   = 10
)

// Service owns the download tasks of a session. Tasks start as soon as they
// are added; at most maxParallel of them transfer at the same time, the rest
// wait for a slot while Active.
type Service struct {
	tasks      map[string]*Task
	order      []string
	tasksMutex sync.RWMutex

	deps        Dependencies
	parser      PlaylistParser
	limiter     *semaphore.Weighted
	maxParallel int
	downloadDir string
	ctx         context.Context
	closed      bool
	onUpdate    func(*model.DownloadTask) // callback for UI updates
}

var _ Downloader = (*Service)(nil)

// NewService creates a new download service. ctx supplies the logger and
// values for every task; parser may be nil when playlists are not needed.
func NewService(ctx context.Context, deps Dependencies, downloadDir string, maxParallel int, parser PlaylistParser) *Service {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	if maxParallel > MaxParallelLimit {
		maxParallel = MaxParallelLimit
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Service{
		tasks:       make(map[string]*Task),
		deps:        deps,
		parser:      parser,
		limiter:     semaphore.NewWeighted(int64(maxParallel)),
		maxParallel: maxParallel,
		downloadDir: downloadDir,
		ctx:         ctx,
	}
}

// MaxParallel returns the number of concurrent transfers
func (s *Service) MaxParallel() int { return s.maxParallel }

// DownloadDir returns the directory new tasks write into
func (s *Service) DownloadDir() string { return s.downloadDir }

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// AddTask creates a task for video in format and starts it
func (s *Service) AddTask(video model.Video, format model.Format) (*Task, error) {
	s.tasksMutex.Lock()

	if s.closed {
		s.tasksMutex.Unlock()
		return nil, ErrClosed
	}

	// Check for duplicate downloads
	for _, id := range s.order {
		existing := s.tasks[id]
		if existing.Video().ID == video.ID && existing.Format() == format && existing.IsActive() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicate, video.ID, format)
		}
	}

	task := NewTask(video, format, s.uniquePathLocked(video, format), s.deps,
		WithLimiter(s.limiter),
		WithContext(s.ctx),
	)
	task.SetEndedCallback(s.taskEnded)
	task.SetProgressCallback(func(t *Task, _ float64) { s.notifyUpdate(t) })

	s.tasks[task.ID()] = task
	s.order = append(s.order, task.ID())
	s.tasksMutex.Unlock()

	logging.FromContext(s.ctx).Info().
		Str("task_id", task.ID()).
		Str("video_id", video.ID).
		Str("file", task.FilePath()).
		Msg("task added")

	task.Start()
	s.notifyUpdate(task)
	return task, nil
}

// AddURL adds a task for a single video URL or bare video id. The title
// and author are looked up first when a metadata resolver is configured; a
// failed lookup falls back to the bare id.
func (s *Service) AddURL(ctx context.Context, url string, format model.Format) (*Task, error) {
	id, err := ParseVideoID(url)
	if err != nil {
		return nil, err
	}
	video, err := s.resolveVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.AddTask(video, format)
}

// resolveVideo only fails when ctx ends during the lookup
func (s *Service) resolveVideo(ctx context.Context, id string) (model.Video, error) {
	if s.deps.Metadata == nil {
		return model.Video{ID: id}, nil
	}
	video, err := s.deps.Metadata.ResolveVideo(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Video{}, ctxErr
		}
		logging.FromContext(s.ctx).Warn().Err(err).Str("video_id", id).Msg("video metadata lookup failed")
		return model.Video{ID: id}, nil
	}
	video.ID = id
	return video, nil
}

// AddPlaylist expands url and adds one task per video. Videos already being
// downloaded are skipped.
func (s *Service) AddPlaylist(ctx context.Context, url string, format model.Format) ([]*Task, error) {
	if s.parser == nil {
		return nil, ErrNoParser
	}

	playlist, err := s.parser.ParsePlaylist(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}

	logger := logging.FromContext(s.ctx)
	tasks := make([]*Task, 0, playlist.Len())
	for _, video := range playlist.Videos {
		if video.ThumbnailURL == "" {
			video.ThumbnailURL = video.DefaultThumbnailURL()
		}
		task, err := s.AddTask(video, format)
		switch {
		case errors.Is(err, ErrDuplicate):
			logger.Debug().Str("video_id", video.ID).Msg("playlist video already queued")
		case err != nil:
			return tasks, err
		default:
			tasks = append(tasks, task)
		}
	}

	logger.Info().
		Str("playlist_id", playlist.ID).
		Str("title", playlist.Title).
		Int("videos", playlist.Len()).
		Int("added", len(tasks)).
		Msg("playlist enqueued")
	return tasks, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*Task, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks in insertion order
func (s *Service) GetAllTasks() []*Task {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks
}

// CancelTask requests cancellation of an active task
func (s *Service) CancelTask(id string) error {
	task, ok := s.GetTask(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !task.Cancel() {
		return fmt.Errorf("%w: %s", ErrTaskInactive, task.State())
	}
	s.notifyUpdate(task)
	return nil
}

// RestartTask starts a canceled or failed task again
func (s *Service) RestartTask(id string) error {
	task, ok := s.GetTask(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	s.tasksMutex.RLock()
	closed := s.closed
	s.tasksMutex.RUnlock()
	if closed {
		return ErrClosed
	}

	if !task.Restart() {
		return fmt.Errorf("%w: %s", ErrNotStartable, task.State())
	}
	s.notifyUpdate(task)
	return nil
}

// RemoveTask forgets a task that is not active
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.IsActive() {
		return ErrTaskActive
	}

	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close stops accepting tasks, cancels the active ones and waits until every
// run has ended or ctx is done.
func (s *Service) Close(ctx context.Context) error {
	s.tasksMutex.Lock()
	s.closed = true
	s.tasksMutex.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range s.GetAllTasks() {
		task.Cancel()
		g.Go(func() error {
			_, err := task.Wait(gctx)
			return err
		})
	}
	return g.Wait()
}

// uniquePathLocked names the output file after the video title, adding a
// counter when another task already writes to the same path
func (s *Service) uniquePathLocked(video model.Video, format model.Format) string {
	base := platform.SanitizeFileName(video.DisplayTitle())
	ext := format.Extension()

	taken := make(map[string]struct{}, len(s.tasks))
	for _, task := range s.tasks {
		taken[strings.ToLower(task.FilePath())] = struct{}{}
	}

	path := filepath.Join(s.downloadDir, base+ext)
	for n := 2; ; n++ {
		if _, exists := taken[strings.ToLower(path)]; !exists {
			return path
		}
		path = filepath.Join(s.downloadDir, fmt.Sprintf("%s (%d)%s", base, n, ext))
	}
}

func (s *Service) taskEnded(task *Task) {
	logger := logging.FromContext(s.ctx)
	if reason, failed := task.FailReason(); failed {
		logger.Warn().Str("task_id", task.ID()).Str("reason", reason).Msg("task failed")
	}
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback with a snapshot of task
func (s *Service) notifyUpdate(task *Task) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()

	if callback != nil {
		snap := task.Snapshot()
		callback(&snap)
	}
}
