package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/ytget/yt-fetch/internal/model"
)

func TestButtonsFor(t *testing.T) {
	tests := []struct {
		state model.TaskState
		want  rowButtons
	}{
		{model.TaskStateIdle, rowButtons{remove: true}},
		{model.TaskStateActive, rowButtons{cancel: true}},
		{model.TaskStateSucceeded, rowButtons{show: true, open: true, remove: true}},
		{model.TaskStateCanceled, rowButtons{restart: true, remove: true}},
		{model.TaskStateFailed, rowButtons{restart: true, remove: true}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, buttonsFor(&model.DownloadTask{State: tt.state}))
		})
	}
}

func TestDisplayPercent(t *testing.T) {
	tests := []struct {
		name string
		task model.DownloadTask
		want int
	}{
		{"idle", model.DownloadTask{State: model.TaskStateIdle}, 0},
		{"tiny progress shows 1%", model.DownloadTask{State: model.TaskStateActive, Progress: 0.001}, MinProgressPercent},
		{"rounded", model.DownloadTask{State: model.TaskStateActive, Progress: 0.426}, 43},
		{"succeeded is full", model.DownloadTask{State: model.TaskStateSucceeded, Progress: 0.5}, MaxProgressPercent},
		{"clamped", model.DownloadTask{State: model.TaskStateActive, Progress: 1.5}, MaxProgressPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayPercent(&tt.task))
		})
	}
}

func TestDetailText(t *testing.T) {
	task := &model.DownloadTask{
		Format:     model.FormatMP3,
		FilePath:   "/music/Song.mp3",
		State:      model.TaskStateFailed,
		FailReason: "disk full",
	}
	assert.Equal(t, "MP3 · Song.mp3 · disk full", detailText(task))

	task.State = model.TaskStateCanceled
	assert.Equal(t, "MP3 · Song.mp3", detailText(task))
}

func TestTaskRow_Update(t *testing.T) {
	test.NewApp()

	row := NewTaskRow(nil)
	assert.Empty(t, row.TaskID())
	assert.False(t, row.removeBtn.Disabled())

	row.UpdateTask(&model.DownloadTask{
		ID:       "task-1",
		Video:    model.Video{ID: "dQw4w9WgXcQ", Title: "Line\nBreak"},
		Format:   model.FormatMP4,
		State:    model.TaskStateActive,
		Progress: 0.25,
	})

	assert.Equal(t, "task-1", row.TaskID())
	assert.Equal(t, "Line Break", row.titleLabel.Text)
	assert.Equal(t, "25%", row.progressLabel.Text)
	assert.InDelta(t, 0.25, row.progressBar.Value, 1e-9)
	assert.False(t, row.cancelBtn.Disabled())
	assert.True(t, row.restartBtn.Disabled())
	assert.True(t, row.showBtn.Disabled())
	assert.True(t, row.removeBtn.Disabled())
}

func TestTaskRow_ActionsUseCurrentTask(t *testing.T) {
	test.NewApp()

	var restarted []string
	row := NewTaskRow(&model.DownloadTask{ID: "first", State: model.TaskStateFailed})
	row.SetActions(TaskActions{Restart: func(id string) { restarted = append(restarted, id) }})

	test.Tap(row.restartBtn)
	row.UpdateTask(&model.DownloadTask{ID: "second", State: model.TaskStateCanceled})
	test.Tap(row.restartBtn)

	assert.Equal(t, []string{"first", "second"}, restarted)
}

func TestTaskRow_DisabledButtonDoesNothing(t *testing.T) {
	test.NewApp()

	called := false
	row := NewTaskRow(&model.DownloadTask{ID: "done", State: model.TaskStateSucceeded})
	row.SetActions(TaskActions{Cancel: func(string) { called = true }})

	test.Tap(row.cancelBtn)
	assert.False(t, called)
}
