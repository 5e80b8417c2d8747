package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	ctx         context.Context
	logger      *zerolog.Logger
	window      fyne.Window
	app         fyne.App
	urlEntry    *widget.Entry
	formatSel   *widget.Select
	downloadBtn *widget.Button
	taskList    *widget.List
	downloadSvc download.Downloader
	settings    *config.Settings

	// snapshots shown by the list, in service order
	tasksMutex sync.RWMutex
	tasks      []*model.DownloadTask

	// UI update debouncing
	lastUIUpdate  time.Time
	uiUpdateMutex sync.Mutex

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
}

// NewRootUI creates and initializes the main UI
func NewRootUI(ctx context.Context, window fyne.Window, app fyne.App, downloadSvc download.Downloader, settings *config.Settings) *RootUI {
	ctx = logging.WithComponent(ctx, "ui")
	ui := &RootUI{
		ctx:         ctx,
		logger:      logging.FromContext(ctx),
		window:      window,
		app:         app,
		downloadSvc: downloadSvc,
		settings:    settings,
	}

	// Set up callback for download updates
	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a YouTube video or playlist URL")
	ui.urlEntry.Validator = validateURL
	// Trigger download when user presses Enter in the URL field
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	formats := make([]string, 0, len(download.SupportedFormats()))
	for _, format := range download.SupportedFormats() {
		formats = append(formats, format.String())
	}
	ui.formatSel = widget.NewSelect(formats, nil)
	ui.formatSel.SetSelected(ui.settings.GetDefaultFormat().String())

	ui.downloadBtn = widget.NewButton(LabelDownload, ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn,
		container.NewHBox(ui.formatSel, ui.downloadBtn), ui.urlEntry)

	// Notification panel under URL input (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.taskList = widget.NewList(
		func() int {
			ui.tasksMutex.RLock()
			defer ui.tasksMutex.RUnlock()
			return len(ui.tasks)
		},
		func() fyne.CanvasObject {
			row := NewTaskRow(nil)
			row.SetActions(ui.taskActions())
			return row
		},
		ui.updateTaskItem,
	)

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil,
		nil,
		nil,
		ui.taskList,
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem("Settings", ui.onShowSettings)
	ui.window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", settingsItem)))
}

func (ui *RootUI) taskActions() TaskActions {
	return TaskActions{
		Cancel:  ui.onCancelTask,
		Restart: ui.onRestartTask,
		Show:    ui.onShowFile,
		Open:    ui.onOpenFile,
		Remove:  ui.onRemoveTask,
	}
}

// validateURL accepts an empty input or an http(s) URL
func validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if _, err := download.ParseVideoID(input); err == nil {
		return nil
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	urlText := cleanText(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification("Please enter a URL", false)
		return
	}
	if err := validateURL(urlText); err != nil {
		ui.showNotification("Invalid URL: "+err.Error(), false)
		return
	}

	format := model.Format(ui.formatSel.Selected)
	if format == "" {
		format = ui.settings.GetDefaultFormat()
	}

	if platform.IsPlaylistURL(urlText) {
		ui.handlePlaylistURL(urlText, format)
		return
	}

	ui.handleVideoURL(urlText, format)
}

// handleVideoURL looks the video up and adds it in the background
func (ui *RootUI) handleVideoURL(videoURL string, format model.Format) {
	ui.showNotification("Looking up video…", true)
	ui.downloadBtn.Disable()

	go func() {
		ctx, cancel := context.WithTimeout(ui.ctx, VideoLookupTimeout)
		defer cancel()

		task, err := ui.downloadSvc.AddURL(ctx, videoURL, format)
		fyne.Do(func() {
			ui.downloadBtn.Enable()
			if err != nil {
				if errors.Is(err, download.ErrDuplicate) {
					ui.showNotification("This video is already downloading", false)
				} else {
					ui.showNotification("Error: "+err.Error(), false)
				}
				return
			}

			ui.logger.Info().Str("task_id", task.ID()).Str("url", videoURL).Msg("download requested")
			ui.urlEntry.SetText("")
			ui.hideNotification()
			ui.reloadTasks()
		})
	}()
}

// handlePlaylistURL expands a playlist in the background
func (ui *RootUI) handlePlaylistURL(playlistURL string, format model.Format) {
	ui.showNotification("Loading playlist…", true)
	ui.downloadBtn.Disable()

	go func() {
		ctx, cancel := context.WithTimeout(ui.ctx, PlaylistParseTimeout)
		defer cancel()

		tasks, err := ui.downloadSvc.AddPlaylist(ctx, playlistURL, format)
		fyne.Do(func() {
			ui.downloadBtn.Enable()
			if err != nil {
				ui.logger.Error().Err(err).Str("url", playlistURL).Msg("playlist failed")
				ui.showNotification("Playlist error: "+err.Error(), false)
				return
			}
			ui.urlEntry.SetText("")
			ui.showNotification(fmt.Sprintf("Added %d videos from playlist", len(tasks)), false)
			ui.reloadTasks()
		})
	}()
}

// showNotification displays a message in the notification panel under the URL input.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window, func() {
		ui.formatSel.SetSelected(ui.settings.GetDefaultFormat().String())
	}).Show()
}

// updateTaskItem binds a list row to the snapshot at id
func (ui *RootUI) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	ui.tasksMutex.RLock()
	if id < 0 || id >= len(ui.tasks) {
		ui.tasksMutex.RUnlock()
		return
	}
	task := ui.tasks[id]
	ui.tasksMutex.RUnlock()

	if row, ok := item.(*TaskRow); ok {
		row.UpdateTask(task)
	}
}

// reloadTasks re-reads every task from the service and refreshes the list
func (ui *RootUI) reloadTasks() {
	all := ui.downloadSvc.GetAllTasks()
	snapshots := make([]*model.DownloadTask, 0, len(all))
	for _, task := range all {
		snap := task.Snapshot()
		snapshots = append(snapshots, &snap)
	}

	ui.tasksMutex.Lock()
	ui.tasks = snapshots
	ui.tasksMutex.Unlock()

	fyne.Do(ui.taskList.Refresh)
}

// replaceSnapshot swaps in a newer snapshot; false when the task is not listed yet
func (ui *RootUI) replaceSnapshot(task *model.DownloadTask) bool {
	ui.tasksMutex.Lock()
	defer ui.tasksMutex.Unlock()
	for i, existing := range ui.tasks {
		if existing.ID == task.ID {
			ui.tasks[i] = task
			return true
		}
	}
	return false
}

// shouldRefresh limits progress-only refreshes to one per debounce interval
func (ui *RootUI) shouldRefresh(task *model.DownloadTask) bool {
	ui.uiUpdateMutex.Lock()
	defer ui.uiUpdateMutex.Unlock()

	now := time.Now()
	if task.State == model.TaskStateActive && now.Sub(ui.lastUIUpdate) < UIUpdateDebounce {
		return false
	}
	ui.lastUIUpdate = now
	return true
}

// onTaskUpdate handles task updates from the download service. It runs on
// task goroutines, so widget changes go through fyne.Do.
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	if !ui.replaceSnapshot(task) {
		ui.reloadTasks()
	} else if ui.shouldRefresh(task) {
		fyne.Do(ui.taskList.Refresh)
	}

	if task.State == model.TaskStateSucceeded {
		ui.sendCompletionNotification(task)
	}
}

func (ui *RootUI) withTask(taskID string, fn func(*download.Task) error) {
	task, ok := ui.downloadSvc.GetTask(taskID)
	if !ok {
		ui.showNotification("Task not found", false)
		return
	}
	if err := fn(task); err != nil {
		ui.logger.Error().Err(err).Str("task_id", taskID).Msg("task action failed")
		fyne.Do(func() { dialog.ShowError(err, ui.window) })
	}
}

func (ui *RootUI) onCancelTask(taskID string) {
	if err := ui.downloadSvc.CancelTask(taskID); err != nil {
		ui.showNotification("Cannot cancel: "+err.Error(), false)
	}
}

func (ui *RootUI) onRestartTask(taskID string) {
	if err := ui.downloadSvc.RestartTask(taskID); err != nil {
		ui.showNotification("Cannot restart: "+err.Error(), false)
	}
}

// onShowFile reveals a downloaded file in the system file manager
func (ui *RootUI) onShowFile(taskID string) {
	ui.withTask(taskID, (*download.Task).ShowFile)
}

// onOpenFile opens a downloaded file with the default application
func (ui *RootUI) onOpenFile(taskID string) {
	ui.withTask(taskID, (*download.Task).OpenFile)
}

// onRemoveTask removes a finished task from the list
func (ui *RootUI) onRemoveTask(taskID string) {
	if err := ui.downloadSvc.RemoveTask(taskID); err != nil {
		ui.showNotification("Cannot remove: "+err.Error(), false)
		return
	}
	ui.reloadTasks()
}

// sendCompletionNotification notifies about a finished download and reveals
// it when the user asked for that
func (ui *RootUI) sendCompletionNotification(task *model.DownloadTask) {
	ui.app.SendNotification(&fyne.Notification{
		Title:   "Download completed",
		Content: task.GetDisplayTitle(),
	})

	if ui.settings.GetAutoRevealOnComplete() {
		ui.withTask(task.ID, (*download.Task).ShowFile)
		return
	}
	fyne.Do(func() { ui.showToastNotification(task) })
}

// showToastNotification shows an in-app toast with Show/Open actions
func (ui *RootUI) showToastNotification(task *model.DownloadTask) {
	titleLabel := widget.NewLabel("Download completed")
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	messageLabel := widget.NewLabel(task.GetDisplayTitle())
	messageLabel.Truncation = fyne.TextTruncateEllipsis

	var toastPopup *widget.PopUp
	hide := func() {
		if toastPopup != nil {
			toastPopup.Hide()
		}
	}

	showBtn := widget.NewButton(LabelShow, func() {
		hide()
		ui.onShowFile(task.ID)
	})
	showBtn.Importance = widget.HighImportance
	openBtn := widget.NewButton(LabelOpen, func() {
		hide()
		ui.onOpenFile(task.ID)
	})
	closeBtn := widget.NewButton("×", hide)
	closeBtn.Importance = widget.LowImportance

	content := container.NewVBox(
		container.NewBorder(nil, nil, titleLabel, closeBtn),
		messageLabel,
		container.NewHBox(showBtn, openBtn),
	)
	toastPopup = widget.NewPopUp(content, ui.window.Canvas())

	// Position in top-right corner
	canvasSize := ui.window.Canvas().Size()
	toastPopup.Resize(fyne.NewSize(ToastWidth, ToastHeight))
	toastPopup.Move(fyne.NewPos(canvasSize.Width-ToastWidth-ToastMargin, ToastMargin))
	toastPopup.Show()

	time.AfterFunc(ToastAutoHide, func() { fyne.Do(hide) })
}
