package service

import (
	"context"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/common/validation"
	"broadcast-tool-backend/internal/features/playlist/models"
	"broadcast-tool-backend/internal/features/playlist/repository"
	"broadcast-tool-backend/internal/utils/random"
)

// playlistVersionKey is bumped on every write. The streamer polls it to
// detect playlist changes cheaply.
const playlistVersionKey = "playlist:version"

type PlaylistService interface {
	GetPlaylist(ctx context.Context) (*models.Playlist, error)
	AddTrack(ctx context.Context, req *models.AddTrackRequest) (*models.Playlist, error)
	RemoveTrack(ctx context.Context, position int) (*models.Playlist, error)
	MoveTrack(ctx context.Context, from, to int) (*models.Playlist, error)
	Replace(ctx context.Context, urls []string) (*models.Playlist, error)
	Shuffle(ctx context.Context) (*models.Playlist, error)
	Clear(ctx context.Context) error
}

type playlistService struct {
	repo      repository.PlaylistRepository
	redis     *goredis.Client
	maxTracks int
}

func NewPlaylistService(repo repository.PlaylistRepository, redis *goredis.Client, maxTracks int) PlaylistService {
	return &playlistService{
		repo:      repo,
		redis:     redis,
		maxTracks: maxTracks,
	}
}

func (s *playlistService) GetPlaylist(ctx context.Context) (*models.Playlist, error) {
	urls, skipped, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.NewPlaylistIOError("load", err)
	}

	version, _ := s.redis.Get(ctx, playlistVersionKey).Int64()

	return buildPlaylist(urls, skipped, version), nil
}

func (s *playlistService) AddTrack(ctx context.Context, req *models.AddTrackRequest) (*models.Playlist, error) {
	url := strings.TrimSpace(req.URL)
	if err := validation.ValidateTrackURL(url); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidTrackURL, err.Error()).
			WithDetail("url", url)
	}

	urls, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.NewPlaylistIOError("load", err)
	}

	if len(urls) >= s.maxTracks {
		return nil, apperrors.New(apperrors.ErrCodePlaylistFull, "Playlist track limit reached").
			WithDetail("max_tracks", s.maxTracks)
	}

	if req.Position == nil || *req.Position >= len(urls) {
		urls = append(urls, url)
	} else {
		pos := *req.Position
		if pos < 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidPosition, "Position cannot be negative")
		}
		urls = append(urls[:pos], append([]string{url}, urls[pos:]...)...)
	}

	return s.persist(ctx, urls)
}

func (s *playlistService) RemoveTrack(ctx context.Context, position int) (*models.Playlist, error) {
	urls, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.NewPlaylistIOError("load", err)
	}

	if position < 0 || position >= len(urls) {
		return nil, apperrors.New(apperrors.ErrCodeTrackNotFound, "No track at position").
			WithDetail("position", position).
			WithDetail("total", len(urls))
	}

	urls = append(urls[:position], urls[position+1:]...)

	return s.persist(ctx, urls)
}

func (s *playlistService) MoveTrack(ctx context.Context, from, to int) (*models.Playlist, error) {
	urls, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.NewPlaylistIOError("load", err)
	}

	if from < 0 || from >= len(urls) {
		return nil, apperrors.New(apperrors.ErrCodeTrackNotFound, "No track at source position").
			WithDetail("position", from)
	}
	if to < 0 || to >= len(urls) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidPosition, "Target position out of range").
			WithDetail("position", to).
			WithDetail("total", len(urls))
	}
	if from == to {
		version, _ := s.redis.Get(ctx, playlistVersionKey).Int64()
		return buildPlaylist(urls, 0, version), nil
	}

	track := urls[from]
	urls = append(urls[:from], urls[from+1:]...)
	urls = append(urls[:to], append([]string{track}, urls[to:]...)...)

	return s.persist(ctx, urls)
}

func (s *playlistService) Replace(ctx context.Context, rawURLs []string) (*models.Playlist, error) {
	if len(rawURLs) > s.maxTracks {
		return nil, apperrors.New(apperrors.ErrCodePlaylistFull, "Playlist track limit reached").
			WithDetail("max_tracks", s.maxTracks).
			WithDetail("supplied", len(rawURLs))
	}

	urls := make([]string, 0, len(rawURLs))
	for i, raw := range rawURLs {
		url := strings.TrimSpace(raw)
		if err := validation.ValidateTrackURL(url); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidTrackURL, err.Error()).
				WithDetail("index", i).
				WithDetail("url", raw)
		}
		urls = append(urls, url)
	}

	return s.persist(ctx, urls)
}

func (s *playlistService) Shuffle(ctx context.Context) (*models.Playlist, error) {
	urls, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.NewPlaylistIOError("load", err)
	}

	if len(urls) < 2 {
		version, _ := s.redis.Get(ctx, playlistVersionKey).Int64()
		return buildPlaylist(urls, 0, version), nil
	}

	if err := random.Shuffle(urls); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to shuffle playlist")
	}

	return s.persist(ctx, urls)
}

func (s *playlistService) Clear(ctx context.Context) error {
	_, err := s.persist(ctx, nil)
	return err
}

func (s *playlistService) persist(ctx context.Context, urls []string) (*models.Playlist, error) {
	if err := s.repo.Save(ctx, urls); err != nil {
		return nil, apperrors.NewPlaylistIOError("save", err)
	}

	version, err := s.redis.Incr(ctx, playlistVersionKey).Result()
	if err != nil {
		// The file write already succeeded; a failed version bump only
		// delays streamer pickup until the next successful write.
		version = 0
	}

	return buildPlaylist(urls, 0, version), nil
}

func buildPlaylist(urls []string, skipped int, version int64) *models.Playlist {
	tracks := make([]models.Track, 0, len(urls))
	for i, u := range urls {
		tracks = append(tracks, models.Track{Position: i, URL: u})
	}

	return &models.Playlist{
		Tracks:  tracks,
		Total:   len(tracks),
		Skipped: skipped,
		Version: version,
	}
}
