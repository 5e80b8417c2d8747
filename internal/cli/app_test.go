package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/model"
)

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	v := viper.New()
	v.Set(config.KeyDownloadDir, filepath.Join(t.TempDir(), "media"))
	v.Set(config.KeyMaxParallel, 3)
	v.Set(config.KeyDefaultFormat, "m4a")

	app, err := NewApp(context.Background(), v, opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Close(ctx)
	})
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, Options{})

	assert.DirExists(t, app.Service.DownloadDir())
	assert.Equal(t, 3, app.Service.MaxParallel())
	assert.NotNil(t, app.Overall)
	assert.NotNil(t, app.Context())
}

func TestNewApp_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "yt-fetch.log")
	newTestApp(t, Options{LogFile: logFile, JSONLogs: true})
	assert.FileExists(t, logFile)
}

func TestApp_ParseFormat(t *testing.T) {
	app := newTestApp(t, Options{})

	tests := []struct {
		name    string
		value   string
		want    model.Format
		wantErr bool
	}{
		{"configured default", "", model.FormatM4A, false},
		{"explicit", "mp3", model.FormatMP3, false},
		{"unknown", "flac", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := app.ParseFormat(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
