package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/eaglebank/user-accounts/shared/models"
	sharedredis "github.com/eaglebank/user-accounts/shared/redis"
	"github.com/sirupsen/logrus"
)

const userKeyPrefix = "user:row:"

// UserReadRepository serves user reads from Redis when a cache is attached,
// falling back to the record store on a miss. Without a cache it is a plain
// pass-through to the store.
//
// The cache holds the persisted row, not the view: age is always derived
// from the birth date at read time.
type UserReadRepository struct {
	store UserRepository
	cache *sharedredis.ViewCache[models.User]
}

// NewUserReadRepository wires store reads; cache may be nil.
func NewUserReadRepository(store UserRepository, cache *sharedredis.ViewCache[models.User]) *UserReadRepository {
	return &UserReadRepository{store: store, cache: cache}
}

// NewUserCache builds the Redis cache used by UserReadRepository.
// A zero ttl keeps entries until they are invalidated.
func NewUserCache(client *sharedredis.Client, ttl time.Duration, logger logrus.FieldLogger) *sharedredis.ViewCache[models.User] {
	return sharedredis.NewViewCache[models.User](client.Client, userKeyPrefix, ttl, logger)
}

// GetByID returns the user from Redis first, then the record store.
// A miss that reaches the store warms the cache.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if r.cache != nil {
		if user, ok := r.cache.Get(ctx, cacheKey(id)); ok {
			return user, nil
		}
	}

	user, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.CacheUser(ctx, user)
	return user, nil
}

// CacheUser stores or refreshes the cached row.
// Called by the command service after every create or update.
func (r *UserReadRepository) CacheUser(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, cacheKey(user.ID), user)
}

// InvalidateUser drops the cached row of a deleted user.
func (r *UserReadRepository) InvalidateUser(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, cacheKey(id))
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
