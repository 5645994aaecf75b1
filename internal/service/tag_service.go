package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/logger"
)

const trendingCacheKey = "trending:tags"

// TagService serves the trending tag ranking through a redis read-through
// cache. A cold or unreachable cache falls back to the database.
type TagService interface {
	Trending(ctx context.Context, limit int) ([]repository.TrendingTag, error)
}

type tagService struct {
	tags  repository.TagRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewTagService(tags repository.TagRepository, cache *redis.Client, ttl time.Duration) TagService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &tagService{tags: tags, cache: cache, ttl: ttl}
}

func (s *tagService) Trending(ctx context.Context, limit int) ([]repository.TrendingTag, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, trendingCacheKey).Bytes()
		if err == nil {
			var cached []repository.TrendingTag
			if json.Unmarshal(raw, &cached) == nil {
				if len(cached) > limit {
					cached = cached[:limit]
				}
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Warn("trending cache read failed", zap.Error(err))
		}
	}

	// cache the widest page so every limit is served from one entry
	rows, err := s.tags.Trending(ctx, 50)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, trendingCacheKey, raw, s.ttl).Err(); err != nil {
				logger.Warn("trending cache write failed", zap.Error(err))
			}
		}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
