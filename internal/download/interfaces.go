package download

import (
	"context"

	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/progress"
)

// Resolver picks a concrete download option for a video and format.
type Resolver interface {
	Resolve(ctx context.Context, videoID string, format model.Format) (*model.DownloadOption, error)
}

// ProgressReporter receives fractional progress in [0, 1].
type ProgressReporter interface {
	Report(fraction float64)
}

// Transferer writes the media described by option to filePath. It must
// return promptly with ctx.Err() (or an error wrapping it) once ctx is done.
type Transferer interface {
	Transfer(ctx context.Context, option model.DownloadOption, filePath string, progress ProgressReporter) error
}

// Tagger writes metadata tags into a downloaded file.
type Tagger interface {
	InjectTags(ctx context.Context, video model.Video, format model.Format, filePath string) error
}

// TagPolicy tells whether tags should be injected after a transfer.
type TagPolicy interface {
	ShouldInjectTags() bool
}

// ProgressSink hands out a progress operation per run.
type ProgressSink interface {
	CreateOperation() progress.Operation
}

// Shell reveals or opens finished files.
type Shell interface {
	RevealFile(filePath string) error
	OpenFile(filePath string) error
}

// MetadataResolver looks up the title and author of a video
type MetadataResolver interface {
	ResolveVideo(ctx context.Context, videoID string) (model.Video, error)
}

// PlaylistParser expands a playlist URL into its videos.
type PlaylistParser interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Dependencies groups the collaborators a task calls.
type Dependencies struct {
	Resolver Resolver
	Transfer Transferer
	Tagger   Tagger
	Tags     TagPolicy
	Progress ProgressSink
	Shell    Shell
	Metadata MetadataResolver
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	AddTask(video model.Video, format model.Format) (*Task, error)
	AddURL(ctx context.Context, url string, format model.Format) (*Task, error)
	AddPlaylist(ctx context.Context, url string, format model.Format) ([]*Task, error)
	GetTask(id string) (*Task, bool)
	GetAllTasks() []*Task
	CancelTask(id string) error
	RestartTask(id string) error
	RemoveTask(id string) error
	Close(ctx context.Context) error
}
