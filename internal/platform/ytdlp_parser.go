package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistParam = "list"
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// PlaylistItem is a single entry returned by a playlist source
type PlaylistItem struct {
	VideoID string
	Title   string
}

// playlistFetcher loads all items of a playlist; replaced in tests
type playlistFetcher func(ctx context.Context, playlistID string) ([]PlaylistItem, error)

func fetchWithLibrary(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// YTDLPParserService handles parsing of YouTube playlists using library
type YTDLPParserService struct {
	timeout time.Duration
	fetch   playlistFetcher
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
		fetch:   fetchWithLibrary,
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ParsePlaylist parses a YouTube playlist and returns video information
func (y *YTDLPParserService) ParsePlaylist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	items, err := y.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(playlistID, rawURL)
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddVideo(model.Video{ID: it.VideoID, Title: strings.TrimSpace(it.Title)})
	}
	playlist.Title = extractPlaylistTitle(playlist.Videos)

	logging.FromContext(ctx).Debug().
		Str("playlist_id", playlistID).
		Int("videos", playlist.Len()).
		Msg("playlist parsed")

	return playlist, nil
}

// IsPlaylistURL reports whether the URL carries a playlist id
func IsPlaylistURL(rawURL string) bool {
	_, err := ExtractPlaylistID(rawURL)
	return err == nil
}

// ExtractPlaylistID extracts the playlist ID from watch or playlist URLs
func ExtractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL: %w", err)
	}
	id := u.Query().Get(PlaylistParam)
	if id == "" {
		return "", fmt.Errorf("could not extract playlist ID from URL: %s", rawURL)
	}
	return id, nil
}

// extractPlaylistTitle generates a title for the playlist based on videos
func extractPlaylistTitle(videos []model.Video) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		commonPrefix := findCommonPrefix(videos[0].Title, videos[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return videos[0].DisplayTitle() + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
