package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/features/user/models"
	"broadcast-tool-backend/internal/features/user/repository"
)

// CachingRepository wraps a UserRepository with a short-TTL Redis cache for
// lookups by id. Every authenticated request re-checks the account status, so
// the cache keeps that check off the database. Writes invalidate.
type CachingRepository struct {
	inner  repository.UserRepository
	client *goredis.Client
	ttl    time.Duration
}

func NewCachingRepository(inner repository.UserRepository, client *goredis.Client, ttl time.Duration) *CachingRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachingRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachingRepository) key(id int64) string {
	return fmt.Sprintf("user:id:%d", id)
}

func (r *CachingRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if b, err := r.client.Get(ctx, r.key(id)).Bytes(); err == nil {
		var u models.User
		if err := json.Unmarshal(b, &u); err == nil {
			return &u, nil
		}
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, r.key(id), b, r.ttl).Err(); err != nil {
			logger.Warn().Err(err).Int64("user_id", id).Msg("Failed to cache user")
		}
	}
	return user, nil
}

func (r *CachingRepository) invalidate(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		logger.Warn().Err(err).Int64("user_id", id).Msg("Failed to invalidate user cache")
	}
}

func (r *CachingRepository) Create(ctx context.Context, user *models.User) error {
	return r.inner.Create(ctx, user)
}

func (r *CachingRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.inner.GetByEmail(ctx, email)
}

func (r *CachingRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.inner.List(ctx)
}

func (r *CachingRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *CachingRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachingRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	if err := r.inner.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachingRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := r.inner.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachingRepository) LinkTelegram(ctx context.Context, id int64, telegramID int64, telegramUsername string) error {
	if err := r.inner.LinkTelegram(ctx, id, telegramID, telegramUsername); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachingRepository) CountByRole(ctx context.Context, role string) (int, error) {
	return r.inner.CountByRole(ctx, role)
}
