// Package transcode converts downloaded streams into the requested audio
// container with ffmpeg, reporting progress from ffmpeg's -progress output.
package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
)

// FFmpeg constants for conversion settings
const (
	MP3Codec   = "libmp3lame"
	MP3Quality = "2"

	OggCodec   = "libvorbis"
	OggQuality = "5"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
)

// ErrUnsupportedFormat is returned for formats ffmpeg is not configured for
var ErrUnsupportedFormat = errors.New("unsupported conversion format")

// Service converts media files with ffmpeg
type Service struct {
	ffmpeg  string
	ffprobe string
}

// NewService creates a new conversion service using ffmpeg from PATH
func NewService() *Service {
	return &Service{
		ffmpeg:  FFmpegCommand,
		ffprobe: FFprobeCommand,
	}
}

// Convert converts inputPath into outputPath. A partial output file is
// removed when conversion fails or is canceled.
func (s *Service) Convert(ctx context.Context, inputPath, outputPath string, format model.Format, onProgress func(float64)) error {
	args, err := BuildFFmpegArgs(inputPath, outputPath, format)
	if err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	logger := logging.FromContext(ctx)

	// Duration is only used for progress; conversion proceeds without it
	duration, err := s.probeDuration(ctx, inputPath)
	if err != nil {
		logger.Warn().Err(err).Str("input", inputPath).Msg("failed to get media duration")
	}

	cmd := exec.CommandContext(ctx, s.ffmpeg, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		monitorProgress(stderr, duration, onProgress)
	}()

	<-monitorDone
	err = cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		os.Remove(outputPath)
		return ctxErr
	}
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg: %w", err)
	}

	if onProgress != nil {
		onProgress(1)
	}
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string, format model.Format) ([]string, error) {
	var codec []string
	switch format {
	case model.FormatMP3:
		codec = []string{"-c:a", MP3Codec, "-q:a", MP3Quality}
	case model.FormatOGG:
		codec = []string{"-c:a", OggCodec, "-q:a", OggQuality}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	args := []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn", // Drop any video stream
	}
	args = append(args, codec...)
	args = append(args,
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	)
	return args, nil
}

// probeDuration gets the duration of a media file in seconds using ffprobe
func (s *Service) probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress reads ffmpeg progress lines until the stream closes
func monitorProgress(r io.Reader, totalDuration float64, onProgress func(float64)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if progress, ok := parseProgressLine(scanner.Text(), totalDuration); ok && onProgress != nil {
			onProgress(progress)
		}
	}
}

// parseProgressLine parses "out_time_us=123456" into a fraction of totalDuration
func parseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if totalDuration <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}

	timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || timeMicroseconds < 0 {
		return 0, false
	}

	progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	return progress, true
}
