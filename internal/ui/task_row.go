package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-fetch/internal/model"
)

// Progress calculation constants
const (
	MaxProgressPercent = 100
	MinProgressPercent = 1
)

// TaskActions are the callbacks a row invokes with its task id
type TaskActions struct {
	Cancel  func(taskID string)
	Restart func(taskID string)
	Show    func(taskID string)
	Open    func(taskID string)
	Remove  func(taskID string)
}

// rowButtons tells which actions are available for a snapshot
type rowButtons struct {
	cancel  bool
	restart bool
	show    bool
	open    bool
	remove  bool
}

// buttonsFor mirrors the task guards on a snapshot
func buttonsFor(task *model.DownloadTask) rowButtons {
	switch task.State {
	case model.TaskStateActive:
		return rowButtons{cancel: true}
	case model.TaskStateSucceeded:
		return rowButtons{show: true, open: true, remove: true}
	case model.TaskStateCanceled, model.TaskStateFailed:
		return rowButtons{restart: true, remove: true}
	default:
		return rowButtons{remove: true}
	}
}

// statusText is the short state label with its icon
func statusText(task *model.DownloadTask) string {
	switch task.State {
	case model.TaskStateActive:
		return IconPlay + " " + task.State.String()
	case model.TaskStateSucceeded:
		return IconDone + " " + task.State.String()
	case model.TaskStateCanceled:
		return IconStop + " " + task.State.String()
	case model.TaskStateFailed:
		return IconError + " " + task.State.String()
	default:
		return IconIdle + " " + task.State.String()
	}
}

// displayPercent converts progress into a label percent. A started transfer
// never shows 0% and a succeeded one always shows 100%.
func displayPercent(task *model.DownloadTask) int {
	if task.State == model.TaskStateSucceeded {
		return MaxProgressPercent
	}
	percent := int(task.Progress*MaxProgressPercent + 0.5)
	if percent == 0 && task.Progress > 0 {
		percent = MinProgressPercent
	}
	return min(max(percent, 0), MaxProgressPercent)
}

// detailText is the second line: format, file name and failure reason
func detailText(task *model.DownloadTask) string {
	parts := []string{strings.ToUpper(task.Format.String())}
	if name := task.FileName(); name != "" {
		parts = append(parts, name)
	}
	if task.State == model.TaskStateFailed && task.FailReason != "" {
		parts = append(parts, task.FailReason)
	}
	return strings.Join(parts, MiddleDotSeparator)
}

func cleanText(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s))
}

// TaskRow represents a compact task row widget
type TaskRow struct {
	widget.BaseWidget

	task    *model.DownloadTask
	actions TaskActions

	titleLabel    *widget.Label
	detailLabel   *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	progressBar   *widget.ProgressBar

	cancelBtn  *widget.Button
	restartBtn *widget.Button
	showBtn    *widget.Button
	openBtn    *widget.Button
	removeBtn  *widget.Button
}

// NewTaskRow creates a new task row widget
func NewTaskRow(task *model.DownloadTask) *TaskRow {
	if task == nil {
		task = &model.DownloadTask{State: model.TaskStateIdle}
	}
	tr := &TaskRow{task: task}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetActions sets the action callbacks
func (tr *TaskRow) SetActions(actions TaskActions) {
	tr.actions = actions
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task *model.DownloadTask) {
	if task == nil {
		return
	}
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

// TaskID returns the id of the task the row currently shows
func (tr *TaskRow) TaskID() string {
	return tr.task.ID
}

func (tr *TaskRow) invoke(action func(string)) func() {
	return func() {
		// read the id at click time, rows are recycled by the list
		if action != nil && tr.task.ID != "" {
			action(tr.task.ID)
		}
	}
}

// createUI creates the UI components
func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.detailLabel = widget.NewLabel("")
	tr.detailLabel.Truncation = fyne.TextTruncateEllipsis
	tr.detailLabel.TextStyle = fyne.TextStyle{Italic: true}

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }

	tr.cancelBtn = widget.NewButton(LabelCancel, func() { tr.invoke(tr.actions.Cancel)() })
	tr.restartBtn = widget.NewButton(LabelRestart, func() { tr.invoke(tr.actions.Restart)() })
	tr.showBtn = widget.NewButton(LabelShow, func() { tr.invoke(tr.actions.Show)() })
	tr.openBtn = widget.NewButton(LabelOpen, func() { tr.invoke(tr.actions.Open)() })
	tr.removeBtn = widget.NewButton(LabelRemove, func() { tr.invoke(tr.actions.Remove)() })
	tr.removeBtn.Importance = widget.LowImportance
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	task := tr.task

	tr.titleLabel.SetText(cleanText(task.GetDisplayTitle()))
	tr.detailLabel.SetText(cleanText(detailText(task)))

	switch task.State {
	case model.TaskStateFailed:
		tr.statusLabel.Importance = widget.DangerImportance
	case model.TaskStateSucceeded:
		tr.statusLabel.Importance = widget.SuccessImportance
	case model.TaskStateActive:
		tr.statusLabel.Importance = widget.HighImportance
	default:
		tr.statusLabel.Importance = widget.MediumImportance
	}
	tr.statusLabel.SetText(statusText(task))

	percent := displayPercent(task)
	tr.progressBar.SetValue(float64(percent) / MaxProgressPercent)
	if task.State == model.TaskStateIdle {
		tr.progressLabel.SetText(DashPlaceholder)
	} else {
		tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, percent))
	}

	tr.updateButtons()
}

// updateButtons updates button states based on task state
func (tr *TaskRow) updateButtons() {
	available := buttonsFor(tr.task)
	setEnabled(tr.cancelBtn, available.cancel)
	setEnabled(tr.restartBtn, available.restart)
	setEnabled(tr.showBtn, available.show)
	setEnabled(tr.openBtn, available.open)
	setEnabled(tr.removeBtn, available.remove)
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewVBox(tr.titleLabel, tr.detailLabel)
	status := container.NewVBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		fixedWidth(PercentLabelWidth, tr.progressLabel),
	)
	actions := container.NewHBox(tr.cancelBtn, tr.restartBtn, tr.showBtn, tr.openBtn, tr.removeBtn)
	right := container.NewBorder(nil, nil, nil, actions, status)

	layout := container.NewVBox(
		container.NewBorder(nil, nil, nil, right, info),
		tr.progressBar,
		widget.NewSeparator(),
	)
	return &taskRowRenderer{layout: layout}
}

// taskRowRenderer renders the task row widget
type taskRowRenderer struct {
	layout *fyne.Container
}

func (r *taskRowRenderer) Layout(size fyne.Size) {
	r.layout.Resize(fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight)))
}

func (r *taskRowRenderer) MinSize() fyne.Size {
	size := r.layout.MinSize()
	return fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight))
}

func (r *taskRowRenderer) Refresh() { r.layout.Refresh() }

func (r *taskRowRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.layout} }

func (r *taskRowRenderer) Destroy() {}
