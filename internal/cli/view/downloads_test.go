package view

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-fetch/internal/model"
)

type fakeCanceller struct {
	canceled []string
	err      error
}

func (f *fakeCanceller) CancelTask(id string) error {
	f.canceled = append(f.canceled, id)
	return f.err
}

func snapshot(id string, state model.TaskState, progress float64) model.DownloadTask {
	return model.DownloadTask{
		ID:       id,
		Video:    model.Video{ID: id, Title: "Video " + id},
		Format:   model.FormatMP3,
		State:    state,
		Progress: progress,
		Runs:     1,
	}
}

func update(t *testing.T, m DownloadsModel, msg tea.Msg) (DownloadsModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(DownloadsModel)
	require.True(t, ok)
	return out, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}

func TestDownloadsModel_QuitsWhenAllTasksEnd(t *testing.T) {
	m := NewDownloadsModel("yt-fetch", &fakeCanceller{})

	m, cmd := update(t, m, TaskUpdateMsg{Task: snapshot("a", model.TaskStateActive, 0.1)})
	assert.False(t, isQuit(cmd), "updates before the task list is known never quit")

	m, cmd = update(t, m, TasksAddedMsg{Tasks: []model.DownloadTask{
		snapshot("a", model.TaskStateActive, 0),
		snapshot("b", model.TaskStateActive, 0),
	}})
	assert.False(t, isQuit(cmd))
	require.Len(t, m.Tasks(), 2)
	assert.InDelta(t, 0.1, m.Tasks()[0].Progress, 1e-9, "older snapshot from the add does not win")

	m, cmd = update(t, m, TaskUpdateMsg{Task: snapshot("a", model.TaskStateSucceeded, 1)})
	assert.False(t, isQuit(cmd))

	m, cmd = update(t, m, TaskUpdateMsg{Task: snapshot("b", model.TaskStateFailed, 0.4)})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, Counts{Succeeded: 1, Failed: 1}, m.Counts())
}

func TestDownloadsModel_StaleUpdateIgnored(t *testing.T) {
	m := NewDownloadsModel("yt-fetch", &fakeCanceller{})
	m, _ = update(t, m, TasksAddedMsg{Tasks: []model.DownloadTask{
		snapshot("a", model.TaskStateActive, 0),
		snapshot("b", model.TaskStateActive, 0),
	}})

	m, _ = update(t, m, TaskUpdateMsg{Task: snapshot("a", model.TaskStateCanceled, 0.5)})
	m, _ = update(t, m, TaskUpdateMsg{Task: snapshot("a", model.TaskStateActive, 0.6)})
	assert.Equal(t, model.TaskStateCanceled, m.Tasks()[0].State)

	restarted := snapshot("a", model.TaskStateActive, 0)
	restarted.Runs = 2
	m, _ = update(t, m, TaskUpdateMsg{Task: restarted})
	assert.Equal(t, model.TaskStateActive, m.Tasks()[0].State, "a new run replaces the finished one")
}

func TestDownloadsModel_InterruptCancelsActiveTasks(t *testing.T) {
	canceller := &fakeCanceller{}
	m := NewDownloadsModel("yt-fetch", canceller)
	m, _ = update(t, m, TasksAddedMsg{Tasks: []model.DownloadTask{
		snapshot("a", model.TaskStateActive, 0.2),
		snapshot("b", model.TaskStateSucceeded, 1),
		snapshot("c", model.TaskStateActive, 0.3),
	}})

	m, cmd := update(t, m, ctrlC)
	assert.False(t, isQuit(cmd), "waits for cancellation to land")
	assert.Equal(t, []string{"a", "c"}, canceller.canceled)
	assert.Contains(t, m.View(), "Cancelling downloads")

	m, _ = update(t, m, TaskUpdateMsg{Task: snapshot("a", model.TaskStateCanceled, 0.2)})
	_, cmd = update(t, m, TaskUpdateMsg{Task: snapshot("c", model.TaskStateCanceled, 0.3)})
	assert.True(t, isQuit(cmd))
}

func TestDownloadsModel_SecondInterruptQuits(t *testing.T) {
	canceller := &fakeCanceller{err: errors.New("task is not active")}
	m := NewDownloadsModel("yt-fetch", canceller)
	m, _ = update(t, m, TasksAddedMsg{Tasks: []model.DownloadTask{snapshot("a", model.TaskStateActive, 0)}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.False(t, isQuit(cmd))

	_, cmd = update(t, m, ctrlC)
	assert.True(t, isQuit(cmd))
	assert.Len(t, canceller.canceled, 1)
}

func TestDownloadsModel_InterruptWhileLoading(t *testing.T) {
	canceller := &fakeCanceller{}
	m := NewDownloadsModel("yt-fetch", canceller)
	assert.Contains(t, m.View(), "Preparing downloads")

	_, cmd := update(t, m, ctrlC)
	assert.True(t, isQuit(cmd))
	assert.Empty(t, canceller.canceled)
}

func TestDownloadsModel_LoadError(t *testing.T) {
	m := NewDownloadsModel("yt-fetch", &fakeCanceller{})
	m, cmd := update(t, m, TasksAddedMsg{Err: errors.New("playlist not found")})

	assert.True(t, isQuit(cmd))
	assert.EqualError(t, m.Err(), "playlist not found")
	assert.Contains(t, m.View(), "playlist not found")
}

func TestDownloadsModel_View(t *testing.T) {
	m := NewDownloadsModel("yt-fetch", &fakeCanceller{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	failed := snapshot("b", model.TaskStateFailed, 0.4)
	failed.FailReason = "disk full"
	m, _ = update(t, m, TasksAddedMsg{Tasks: []model.DownloadTask{
		snapshot("a", model.TaskStateActive, 0.5),
		failed,
	}})
	m, _ = update(t, m, OverallMsg{Value: 0.5})

	view := m.View()
	assert.Contains(t, view, "Video a")
	assert.Contains(t, view, "Video b")
	assert.Contains(t, view, "disk full")
	assert.Contains(t, view, "MP3")
	assert.Contains(t, view, "1/2 done")
	assert.Contains(t, view, "50%")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title", 8, "a longe…"},
		{"no limit", 0, "no limit"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFraction(t *testing.T) {
	assert.InDelta(t, 1.0, fraction(snapshot("a", model.TaskStateSucceeded, 0.2)), 1e-9)
	assert.InDelta(t, 0.25, fraction(snapshot("a", model.TaskStateActive, 0.25)), 1e-9)
	assert.InDelta(t, 1.0, fraction(snapshot("a", model.TaskStateActive, 1.5)), 1e-9)
}
