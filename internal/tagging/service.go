// Package tagging writes video metadata into downloaded audio files.
package tagging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bogem/id3v2"

	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
)

// Tag constants
const (
	CommentLanguage    = "eng"
	CoverDescription   = "Cover"
	MaxCoverSize       = 5 << 20
	CoverFetchTimeout  = 15 * time.Second
	SourceCommentLabel = "Source"
)

// Service injects ID3v2 tags into mp3 files. Other formats are left untouched.
type Service struct {
	client *http.Client
}

// NewService creates a tagging service. A nil client disables cover art.
func NewService(client *http.Client) *Service {
	return &Service{client: client}
}

// Supports reports whether tags can be written for format
func Supports(format model.Format) bool {
	return format == model.FormatMP3
}

// InjectTags writes title, artist, year, source URL and cover art
func (s *Service) InjectTags(ctx context.Context, video model.Video, format model.Format, filePath string) error {
	logger := logging.FromContext(ctx)
	if !Supports(format) {
		logger.Debug().Str("format", format.String()).Msg("tagging skipped for format")
		return nil
	}

	// Cover art is best effort and fetched before the file is opened
	var cover []byte
	var coverMime string
	if s.client != nil && video.ThumbnailURL != "" {
		data, mime, err := s.fetchCover(ctx, video.ThumbnailURL)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			logger.Warn().Err(err).Str("url", video.ThumbnailURL).Msg("failed to fetch cover art")
		default:
			cover, coverMime = data, mime
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags: %w", err)
	}
	defer tag.Close()

	applyTags(tag, video, cover, coverMime)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func applyTags(tag *id3v2.Tag, video model.Video, cover []byte, mime string) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(video.DisplayTitle())
	if video.Author != "" {
		tag.SetArtist(video.Author)
	}
	if !video.UploadDate.IsZero() {
		tag.SetYear(strconv.Itoa(video.UploadDate.Year()))
	}

	tag.DeleteFrames(tag.CommonID("Comments"))
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    CommentLanguage,
		Description: SourceCommentLabel,
		Text:        video.URL(),
	})

	if len(cover) > 0 {
		if mime == "" {
			mime = http.DetectContentType(cover)
		}
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mime,
			PictureType: id3v2.PTFrontCover,
			Description: CoverDescription,
			Picture:     cover,
		})
	}
}

func (s *Service) fetchCover(ctx context.Context, url string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, CoverFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxCoverSize))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
