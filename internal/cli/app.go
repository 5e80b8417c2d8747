// Package cli wires the download service for the terminal front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
	"github.com/ytget/yt-fetch/internal/progress"
)

const logFilePerm = 0o644

// Options are the logging flags of the command line
type Options struct {
	LogFile  string
	JSONLogs bool
}

// App holds CLI dependencies.
type App struct {
	Settings *config.Settings
	Service  *download.Service
	Overall  *progress.Manager
	Logger   zerolog.Logger

	ctx     context.Context
	logFile *os.File
}

// NewApp loads configuration from v and builds the download service. Logs go
// to opts.LogFile when set and are discarded otherwise so they never draw
// over the terminal UI.
func NewApp(ctx context.Context, v *viper.Viper, opts Options) (*App, error) {
	settings := config.NewSettings(config.NewViperStore(v))

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(settings.GetLogLevel())
	logCfg.Output = io.Discard
	if opts.JSONLogs {
		logCfg.Format = "json"
	}

	var logFile *os.File
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		logCfg.Output = f
	}
	logger := logging.New(logCfg)
	ctx = logging.WithContext(ctx, logger)

	dir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("create download directory: %w", err)
	}

	overall := progress.NewManager()
	deps := download.DefaultDependencies(settings.GetQualityPreset().VideoQuality(), settings, overall)
	service := download.NewService(ctx, deps, dir, settings.GetMaxParallelDownloads(), platform.NewYTDLPParserService())

	logger.Info().
		Str("dir", dir).
		Int("parallel", service.MaxParallel()).
		Str("quality", string(settings.GetQualityPreset())).
		Msg("cli ready")

	return &App{
		Settings: settings,
		Service:  service,
		Overall:  overall,
		Logger:   logger,
		ctx:      ctx,
		logFile:  logFile,
	}, nil
}

// Context returns the context carrying the app logger
func (a *App) Context() context.Context { return a.ctx }

// ParseFormat validates a --format value, falling back to the configured default
func (a *App) ParseFormat(value string) (model.Format, error) {
	if value == "" {
		return a.Settings.GetDefaultFormat(), nil
	}
	format := model.Format(value)
	for _, known := range model.Formats() {
		if format == known {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q", value)
}

// Close stops every running download and waits for the tasks to end
func (a *App) Close(ctx context.Context) error {
	err := a.Service.Close(ctx)
	closeQuietly(a.logFile)
	return err
}

func closeQuietly(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
