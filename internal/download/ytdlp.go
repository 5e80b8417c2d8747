package download

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/transcode"
)

// Share of the progress range given to the download when a conversion follows
const downloadShareWithConversion = 0.8

// YTDLP transfers media with the ytdlp library and converts it with ffmpeg
// when the requested format is not served directly.
type YTDLP struct {
	converter transcode.Converter
}

// NewYTDLP creates a transfer using converter for audio conversions
func NewYTDLP(converter transcode.Converter) *YTDLP {
	return &YTDLP{converter: converter}
}

// Transfer implements Transferer
func (y *YTDLP) Transfer(ctx context.Context, option model.DownloadOption, filePath string, progress ProgressReporter) error {
	logger := logging.FromContext(ctx)

	target := filePath
	share := 1.0
	if option.NeedsConversion {
		if y.converter == nil {
			return fmt.Errorf("format %s needs conversion but no converter is configured", option.Format)
		}
		target = sourcePath(filePath, option.Container)
		share = downloadShareWithConversion
		defer os.Remove(target)
	}

	dl := ytdlp.New().
		WithFormat(option.Quality, StreamExtension(option.Container)).
		WithOutputPath(target).
		WithProgress(func(p ytdlp.Progress) {
			progress.Report(p.Percent / 100 * share)
		})

	logger.Debug().Str("url", option.SourceURL).Str("target", target).Msg("transfer started")
	if _, err := dl.Download(ctx, option.SourceURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	if option.NeedsConversion {
		err := y.converter.Convert(ctx, target, filePath, option.Format, func(f float64) {
			progress.Report(share + f*(1-share))
		})
		if err != nil {
			return fmt.Errorf("convert to %s: %w", option.Format, err)
		}
	}

	progress.Report(1)
	return nil
}

// sourcePath names the intermediate file a conversion reads from
func sourcePath(filePath, container string) string {
	return filePath + ".source." + container
}

// YTDLPMetadata resolves video metadata with the ytdlp library
type YTDLPMetadata struct{}

// NewYTDLPMetadata creates a metadata resolver
func NewYTDLPMetadata() *YTDLPMetadata {
	return &YTDLPMetadata{}
}

// ResolveVideo implements MetadataResolver
func (m *YTDLPMetadata) ResolveVideo(ctx context.Context, videoID string) (model.Video, error) {
	video := model.Video{ID: videoID}
	video.ThumbnailURL = video.DefaultThumbnailURL()
	info, err := ytdlp.New().ResolveURL(ctx, video.URL())
	if err != nil {
		return video, fmt.Errorf("resolve %s: %w", videoID, err)
	}
	video.Title = strings.TrimSpace(info.Title)
	video.Author = strings.TrimSpace(info.Author)
	return video, nil
}
