package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/model"
)

// Settings dialog sizing
const (
	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 460
)

var logLevelOptions = []string{"debug", "info", "warn", "error"}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	// UI components
	downloadDirEntry *widget.Entry
	maxParallelEntry *widget.Entry
	qualitySelect    *widget.Select
	formatSelect     *widget.Select
	injectTagsCheck  *widget.Check
	autoRevealCheck  *widget.Check
	logLevelSelect   *widget.Select
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// settings have been written.
func NewSettingsDialog(settings *config.Settings, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
		onSaved:  onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-10")

	qualityOptions := []string{}
	for _, preset := range sd.settings.GetQualityPresetOptions() {
		qualityOptions = append(qualityOptions, string(preset))
	}
	sd.qualitySelect = widget.NewSelect(qualityOptions, nil)

	formatOptions := []string{}
	for _, format := range download.SupportedFormats() {
		formatOptions = append(formatOptions, format.String())
	}
	sd.formatSelect = widget.NewSelect(formatOptions, nil)

	sd.injectTagsCheck = widget.NewCheck("Write title, artist and cover tags into mp3 files", nil)
	sd.autoRevealCheck = widget.NewCheck("Reveal downloads in the file manager when done", nil)
	sd.logLevelSelect = widget.NewSelect(logLevelOptions, nil)

	form := widget.NewForm(
		widget.NewFormItem("Download Directory", downloadDirRow),
		widget.NewFormItem("Max Parallel Downloads", sd.maxParallelEntry),
		widget.NewFormItem("Quality Preset", sd.qualitySelect),
		widget.NewFormItem("Default Format", sd.formatSelect),
		widget.NewFormItem("Tags", sd.injectTagsCheck),
		widget.NewFormItem("On Complete", sd.autoRevealCheck),
		widget.NewFormItem("Log Level", sd.logLevelSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		container.NewVBox(form, widget.NewLabel("Parallelism and log level apply after restart.")),
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.qualitySelect.SetSelected(string(sd.settings.GetQualityPreset()))
	sd.formatSelect.SetSelected(sd.settings.GetDefaultFormat().String())
	sd.injectTagsCheck.SetChecked(sd.settings.ShouldInjectTags())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.logLevelSelect.SetSelected(sd.settings.GetLogLevel())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes the form values into the settings
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if maxParallel, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelDownloads(maxParallel)
	}
	if sd.qualitySelect.Selected != "" {
		sd.settings.SetQualityPreset(config.QualityPreset(sd.qualitySelect.Selected))
	}
	if sd.formatSelect.Selected != "" {
		sd.settings.SetDefaultFormat(model.Format(sd.formatSelect.Selected))
	}
	sd.settings.SetInjectTags(sd.injectTagsCheck.Checked)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
	if sd.logLevelSelect.Selected != "" {
		sd.settings.SetLogLevel(sd.logLevelSelect.Selected)
	}
}
