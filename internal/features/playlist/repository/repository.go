package repository

import "context"

// PlaylistRepository abstracts the flat playlist file shared with the
// streamer. Load returns the usable track URLs plus the number of lines that
// were skipped as unusable.
type PlaylistRepository interface {
	Load(ctx context.Context) (urls []string, skipped int, err error)
	Save(ctx context.Context, urls []string) error
}
