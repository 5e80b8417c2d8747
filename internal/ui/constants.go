package ui

import "time"

// Presentation constants shared by the window, task rows and dialogs

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconStop     = "⏹"
	IconDone     = "✔"
	IconError    = "❌"
	IconIdle     = "⏳"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Button labels
const (
	LabelDownload = "Download"
	LabelCancel   = "Cancel"
	LabelRestart  = "Restart"
	LabelShow     = "Show"
	LabelOpen     = "Open"
	LabelRemove   = "Remove"
)

// Layout sizing (TaskRow / lists)
const (
	StatusLabelWidth  float32 = 96
	PercentLabelWidth float32 = 48
	FormatSelectWidth float32 = 80

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 72
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)

// Timeouts
const (
	PlaylistParseTimeout = 2 * time.Minute
	VideoLookupTimeout   = 30 * time.Second
)
