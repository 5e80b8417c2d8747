package model

import (
	"time"
)

// Playlist represents a YouTube playlist resolved into its videos
type Playlist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Videos    []Video   `json:"videos"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(id, url string) *Playlist {
	return &Playlist{
		ID:        id,
		URL:       url,
		Videos:    make([]Video, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo appends a video, skipping ids already present
func (p *Playlist) AddVideo(video Video) bool {
	for _, v := range p.Videos {
		if v.ID == video.ID {
			return false
		}
	}
	p.Videos = append(p.Videos, video)
	return true
}

// Len returns the number of videos
func (p *Playlist) Len() int {
	return len(p.Videos)
}
