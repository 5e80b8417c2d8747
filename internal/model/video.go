package model

import (
	"fmt"
	"strings"
	"time"
)

// YouTubeVideoURLTemplate builds a watch URL from a video id
const YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"

// YouTubeThumbnailURLTemplate is the high quality still every video has
const YouTubeThumbnailURLTemplate = "https://i.ytimg.com/vi/%s/hqdefault.jpg"

// Format is the target container the user asked for
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatWebM Format = "webm"
	FormatMP3  Format = "mp3"
	FormatM4A  Format = "m4a"
	FormatOGG  Format = "ogg"
)

// Formats returns every known format in display order
func Formats() []Format {
	return []Format{FormatMP4, FormatWebM, FormatMP3, FormatM4A, FormatOGG}
}

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	return "." + strings.ToLower(string(f))
}

// IsAudioOnly reports whether the format carries no video stream
func (f Format) IsAudioOnly() bool {
	switch f {
	case FormatMP3, FormatM4A, FormatOGG:
		return true
	}
	return false
}

// Video is the source metadata a task downloads. It never changes for the
// lifetime of a task.
type Video struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Author       string        `json:"author,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	UploadDate   time.Time     `json:"upload_date,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
}

// URL returns the watch URL of the video
func (v Video) URL() string {
	return fmt.Sprintf(YouTubeVideoURLTemplate, v.ID)
}

// DefaultThumbnailURL returns the standard thumbnail address of the video
func (v Video) DefaultThumbnailURL() string {
	return fmt.Sprintf(YouTubeThumbnailURLTemplate, v.ID)
}

// DisplayTitle returns the title, or the id when the title is unknown
func (v Video) DisplayTitle() string {
	if title := strings.TrimSpace(v.Title); title != "" {
		return title
	}
	return v.ID
}

// DownloadOption is the resolved transfer descriptor: which stream to fetch
// and whether it has to be converted to reach the requested format.
type DownloadOption struct {
	Format          Format `json:"format"`
	Container       string `json:"container"`
	Quality         string `json:"quality"`
	SourceURL       string `json:"source_url"`
	NeedsConversion bool   `json:"needs_conversion,omitempty"`
}

// String returns a short human readable description
func (o DownloadOption) String() string {
	if o.NeedsConversion {
		return fmt.Sprintf("%s/%s -> %s", o.Container, o.Quality, o.Format)
	}
	return fmt.Sprintf("%s/%s", o.Container, o.Quality)
}
