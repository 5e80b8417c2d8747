package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask is a consistent, read-only snapshot of a download task taken
// under the task lock. The UI renders these; it never mutates the task itself.
type DownloadTask struct {
	ID         string
	Video      Video
	Format     Format
	FilePath   string
	State      TaskState
	FailReason string          // set only when State is Failed
	Option     *DownloadOption // nil until resolved
	Progress   float64         // 0.0 to 1.0
	Percent    int             // 0 to 100
	Runs       int             // number of started runs
	StartedAt  time.Time       // when the last run started
	FinishedAt time.Time       // when the last run finished
}

// FileName returns the base name of the destination file
func (dt *DownloadTask) FileName() string {
	if dt.FilePath == "" {
		return ""
	}
	return filepath.Base(dt.FilePath)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if dt.Video.Title != "" && !strings.HasPrefix(dt.Video.Title, "http") {
		return dt.Video.Title
	}

	if name := dt.FileName(); name != "" {
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}

	if dt.Video.ID == "" {
		return ""
	}
	return dt.Video.URL()
}

// GetStatusText returns the state with the failure reason or percent appended
func (dt *DownloadTask) GetStatusText() string {
	switch dt.State {
	case TaskStateFailed:
		if dt.FailReason != "" {
			return fmt.Sprintf("%s: %s", dt.State, dt.FailReason)
		}
	case TaskStateActive:
		return fmt.Sprintf("%s %d%%", dt.State, dt.Percent)
	}
	return dt.State.String()
}

// Elapsed returns how long the last run took, or has been running so far
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() || dt.FinishedAt.Before(dt.StartedAt) {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}
