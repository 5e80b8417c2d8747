package download

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ytget/yt-fetch/internal/model"
)

// Format selectors understood by the ytdlp format picker. It knows best,
// worst, itag=N and height<=N / height>=N and nothing else.
const (
	QualityBest     = "best"
	QualityMedium   = "height<=720"
	QualitySmallest = "worst"

	// audio-only streams, picked by itag
	QualityAudioMP4  = "itag=140"
	QualityAudioWebM = "itag=251"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// preset describes how a requested format is obtained. audioSelector is
// set for audio-only formats and overrides the video quality.
type preset struct {
	container     string
	audioSelector string
	conversion    bool
}

var presets = map[model.Format]preset{
	model.FormatMP4:  {container: "mp4"},
	model.FormatWebM: {container: "webm"},
	model.FormatM4A:  {container: "m4a", audioSelector: QualityAudioMP4},
	model.FormatMP3:  {container: "m4a", audioSelector: QualityAudioMP4, conversion: true},
	model.FormatOGG:  {container: "webm", audioSelector: QualityAudioWebM, conversion: true},
}

// FormatResolver resolves download options from a static format table
type FormatResolver struct {
	quality string
}

// NewFormatResolver creates a resolver that asks for the given video quality
func NewFormatResolver(quality string) *FormatResolver {
	if quality == "" {
		quality = QualityBest
	}
	return &FormatResolver{quality: quality}
}

// SupportedFormats returns the formats the resolver knows, in display order
func SupportedFormats() []model.Format {
	return model.Formats()
}

// Resolve implements Resolver
func (r *FormatResolver) Resolve(ctx context.Context, videoID string, format model.Format) (*model.DownloadOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !IsValidVideoID(videoID) {
		return nil, fmt.Errorf("invalid video id: %q", videoID)
	}

	p, ok := presets[model.Format(strings.ToLower(format.String()))]
	if !ok {
		return nil, fmt.Errorf("no download option matches format %q", format)
	}

	quality := r.quality
	if p.audioSelector != "" {
		quality = p.audioSelector
	}

	return &model.DownloadOption{
		Format:          format,
		Container:       p.container,
		Quality:         quality,
		SourceURL:       model.Video{ID: videoID}.URL(),
		NeedsConversion: p.conversion,
	}, nil
}

// StreamExtension is the extension the format picker matches for container.
// It compares mime subtypes, and m4a audio is served as audio/mp4.
func StreamExtension(container string) string {
	if container == "m4a" {
		return "mp4"
	}
	return container
}

// IsValidVideoID reports whether id looks like a YouTube video id
func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// ParseVideoID extracts the video id from a watch, short, embed or youtu.be
// URL. A bare id is returned as is.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if IsValidVideoID(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse video url: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "music.youtube.com":
		switch {
		case segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) > 1 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
			id = segments[1]
		}
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", raw)
	}

	if !IsValidVideoID(id) {
		return "", fmt.Errorf("no video id in URL: %s", raw)
	}
	return id, nil
}
