package feature

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domain "coopvest-backend/internal/domain/feature"
)

const cacheTTL = time.Hour

// Usecase answers flag lookups with a redis cache in front of the flags
// table. Cache problems degrade to a DB read, never to an error.
type Usecase struct {
	repo  domain.Repository
	cache *redis.Client
	log   *logrus.Logger
}

func NewUsecase(repo domain.Repository, cache *redis.Client, log *logrus.Logger) *Usecase {
	return &Usecase{repo: repo, cache: cache, log: log}
}

func cacheKey(slug string, platform domain.Platform) string {
	return "feature:" + slug + ":" + string(platform)
}

// IsEnabled implements the FlagChecker boundary used by the guarantor flow.
// Platform defaults to web for server-side callers.
func (u *Usecase) IsEnabled(ctx context.Context, slug string) (bool, error) {
	return u.IsEnabledFor(ctx, slug, domain.PlatformWeb)
}

// IsEnabledFor resolves a flag for a platform. A missing flag is disabled,
// not an error: callers gate on the answer, they do not manage flags.
func (u *Usecase) IsEnabledFor(ctx context.Context, slug string, platform domain.Platform) (bool, error) {
	key := cacheKey(slug, platform)
	if u.cache != nil {
		if v, err := u.cache.Get(ctx, key).Result(); err == nil {
			return v == "1", nil
		} else if !errors.Is(err, redis.Nil) {
			u.log.WithError(err).WithField("key", key).Warn("feature cache read failed")
		}
	}

	f, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u.put(ctx, key, false)
			return false, nil
		}
		return false, err
	}
	enabled := f.EnabledForPlatform(platform)
	u.put(ctx, key, enabled)
	return enabled, nil
}

func (u *Usecase) put(ctx context.Context, key string, enabled bool) {
	if u.cache == nil {
		return
	}
	v := "0"
	if enabled {
		v = "1"
	}
	if err := u.cache.Set(ctx, key, v, cacheTTL).Err(); err != nil {
		u.log.WithError(err).WithField("key", key).Warn("feature cache write failed")
	}
}

// SetEnabled flips a flag and drops its cache entries so the change is
// visible before the TTL runs out.
func (u *Usecase) SetEnabled(ctx context.Context, slug string, enabled bool) (*domain.Feature, error) {
	f, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	f.Enabled = enabled
	if err := u.repo.Save(ctx, f); err != nil {
		return nil, err
	}
	if u.cache != nil {
		keys := []string{
			cacheKey(slug, domain.PlatformWeb),
			cacheKey(slug, domain.PlatformMobile),
		}
		if err := u.cache.Del(ctx, keys...).Err(); err != nil {
			u.log.WithError(err).WithField("slug", slug).Warn("feature cache invalidation failed")
		}
	}
	return f, nil
}

// ListEnabled returns the flags a client platform should see.
func (u *Usecase) ListEnabled(ctx context.Context, platform domain.Platform) ([]domain.Feature, error) {
	return u.repo.ListEnabled(ctx, platform)
}
