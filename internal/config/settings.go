// Package config holds the user settings of the downloader. The same
// Settings type serves the GUI, backed by fyne preferences, and the CLI,
// backed by viper.
package config

import (
	"strings"

	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
)

// Quality presets for downloads
type QualityPreset string

const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
	QualityAudio  QualityPreset = "audio"
)

// Settings keys
const (
	KeyDownloadDir        = "download_directory"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyQualityPreset      = "quality_preset"
	KeyDefaultFormat      = "default_format"
	KeyInjectTags         = "inject_tags"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyLogLevel           = "log_level"
)

// Default values
const (
	DefaultMaxParallel        = 2
	MinMaxParallel            = 1
	MaxMaxParallel            = 10
	DefaultQualityPreset      = QualityMedium
	DefaultFormat             = model.FormatMP4
	DefaultInjectTags         = true
	DefaultAutoRevealComplete = false
	DefaultLogLevel           = "info"
	FallbackDownloadDir       = "/tmp/downloads"
)

// Store is the key/value backend of Settings. fyne.Preferences satisfies it.
type Store interface {
	String(key string) string
	SetString(key string, value string)
	Int(key string) int
	SetInt(key string, value int)
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
}

// Settings manages application configuration
type Settings struct {
	store Store
}

// NewSettings creates a new settings manager
func NewSettings(store Store) *Settings {
	return &Settings{store: store}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.store.String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.store.SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.store.Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return clampParallel(value)
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.store.SetInt(KeyMaxParallel, clampParallel(count))
}

func clampParallel(count int) int {
	return min(max(count, MinMaxParallel), MaxMaxParallel)
}

// GetQualityPreset returns the configured quality preset
func (s *Settings) GetQualityPreset() QualityPreset {
	preset := QualityPreset(s.store.String(KeyQualityPreset))
	if !preset.IsValid() {
		s.SetQualityPreset(DefaultQualityPreset)
		return DefaultQualityPreset
	}
	return preset
}

// SetQualityPreset sets the quality preset
func (s *Settings) SetQualityPreset(preset QualityPreset) {
	s.store.SetString(KeyQualityPreset, string(preset))
}

// GetQualityPresetOptions returns available quality preset options
func (s *Settings) GetQualityPresetOptions() []QualityPreset {
	return []QualityPreset{QualityBest, QualityMedium, QualityAudio}
}

// IsValid reports whether p is a known preset
func (p QualityPreset) IsValid() bool {
	switch p {
	case QualityBest, QualityMedium, QualityAudio:
		return true
	}
	return false
}

// VideoQuality maps the preset onto a format selector of the resolver.
// Audio formats always pick their audio stream; the audio preset asks for
// the smallest stream when a video container is requested anyway.
func (p QualityPreset) VideoQuality() string {
	switch p {
	case QualityMedium:
		return download.QualityMedium
	case QualityAudio:
		return download.QualitySmallest
	default:
		return download.QualityBest
	}
}

// GetDefaultFormat returns the format preselected for new downloads
func (s *Settings) GetDefaultFormat() model.Format {
	format := model.Format(strings.ToLower(s.store.String(KeyDefaultFormat)))
	for _, known := range model.Formats() {
		if format == known {
			return format
		}
	}
	return DefaultFormat
}

// SetDefaultFormat sets the format preselected for new downloads
func (s *Settings) SetDefaultFormat(format model.Format) {
	s.store.SetString(KeyDefaultFormat, format.String())
}

// ShouldInjectTags reports whether metadata tags are written after a download
func (s *Settings) ShouldInjectTags() bool {
	return s.store.BoolWithFallback(KeyInjectTags, DefaultInjectTags)
}

// SetInjectTags enables or disables tag injection
func (s *Settings) SetInjectTags(inject bool) {
	s.store.SetBool(KeyInjectTags, inject)
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.store.BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.store.SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLogLevel returns the configured log level name
func (s *Settings) GetLogLevel() string {
	if level := s.store.String(KeyLogLevel); level != "" {
		return level
	}
	return DefaultLogLevel
}

// SetLogLevel sets the log level name
func (s *Settings) SetLogLevel(level string) {
	s.store.SetString(KeyLogLevel, level)
}
