package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/platform"
	"github.com/ytget/yt-fetch/internal/progress"
	"github.com/ytget/yt-fetch/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-fetch"
	AppName = "YT Fetch"

	WindowWidth  = 800
	WindowHeight = 600

	ShutdownTimeout = 5 * time.Second
)

func main() {
	// Create new Fyne app
	myApp := app.NewWithID(AppID)
	settings := config.NewSettings(myApp.Preferences())

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(settings.GetLogLevel())
	logger := logging.New(logCfg)
	ctx := logging.WithContext(context.Background(), logger)
	logger.Info().Str("version", version).Msg("YT Fetch starting")

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logger.Warn().Err(err).Str("dir", downloadsDir).Msg("failed to ensure downloads dir")
	}

	overall := progress.NewManager()
	deps := download.DefaultDependencies(settings.GetQualityPreset().VideoQuality(), settings, overall)
	downloadSvc := download.NewService(ctx, deps, downloadsDir, settings.GetMaxParallelDownloads(), platform.NewYTDLPParserService())

	// Window title shows the combined progress of running downloads
	overall.SetUpdateCallback(func(value float64) {
		title := windowTitle
		if overall.IsActive() {
			title = fmt.Sprintf("%s (%d%%)", windowTitle, int(value*100))
		}
		fyne.Do(func() { myWindow.SetTitle(title) })
	})

	ui.NewRootUI(ctx, myWindow, myApp, downloadSvc, settings)

	myWindow.SetOnClosed(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := downloadSvc.Close(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("downloads did not stop in time")
		}
	})

	// Show and run
	myWindow.ShowAndRun()
}
