package models

// Track is one playlist entry with its zero-based position in the file.
type Track struct {
	Position int    `json:"position" example:"0"`
	URL      string `json:"url" example:"https://cdn.example.com/media/intro.mp4"`
}

// Playlist is the API view of the shared playlist file.
// @Description Playlist contents with file health info
type Playlist struct {
	Tracks []Track `json:"tracks"`
	Total  int     `json:"total" example:"12"`
	// Lines in the file that failed URL validation and were ignored.
	Skipped int `json:"skipped" example:"0"`
	// Monotonic version, bumped on every write so the streamer can detect
	// changes without re-reading the file.
	Version int64 `json:"version" example:"37"`
}

// AddTrackRequest appends or inserts one track.
type AddTrackRequest struct {
	URL      string `json:"url" binding:"required" example:"https://cdn.example.com/media/intro.mp4"`
	Position *int   `json:"position,omitempty" example:"3"`
}

// MoveTrackRequest reorders a track.
type MoveTrackRequest struct {
	From int `json:"from" example:"3"`
	To   int `json:"to" example:"0"`
}

// ReplaceRequest swaps the whole playlist.
type ReplaceRequest struct {
	URLs []string `json:"urls" binding:"required"`
}
