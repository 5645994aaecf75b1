package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
)

func newTagEnv(t *testing.T) (*env, TagService, *miniredis.Miniredis) {
	t.Helper()
	e := newEnv(t)
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })
	svc := NewTagService(repository.NewTagRepository(e.db), cache, time.Minute)
	return e, svc, mr
}

func seedTagged(t *testing.T, e *env, authorID uint, tag string, n int) {
	t.Helper()
	repo := repository.NewTweetRepository(e.db)
	for i := 0; i < n; i++ {
		tw := &model.Tweet{AuthorID: authorID, Kind: model.KindOriginal, Text: "#" + tag}
		require.NoError(t, repo.Create(bg(), tw, nil, []string{tag}, nil))
	}
}

func TestTrendingRanksByUsage(t *testing.T) {
	e, svc, _ := newTagEnv(t)
	u := e.user(t, "amira")
	seedTagged(t, e, u.ID, "go", 3)
	seedTagged(t, e, u.ID, "rust", 1)

	rows, err := svc.Trending(bg(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "go", rows[0].Name)
	assert.Equal(t, int64(3), rows[0].Uses)
	assert.Equal(t, "rust", rows[1].Name)
}

func TestTrendingServesFromCache(t *testing.T) {
	e, svc, mr := newTagEnv(t)
	u := e.user(t, "amira")
	seedTagged(t, e, u.ID, "go", 1)

	first, err := svc.Trending(bg(), 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(trendingCacheKey))

	// new usage is invisible until the cache entry expires
	seedTagged(t, e, u.ID, "rust", 5)
	second, err := svc.Trending(bg(), 10)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	mr.FastForward(2 * time.Minute)
	third, err := svc.Trending(bg(), 10)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestTrendingClampsLimit(t *testing.T) {
	e, svc, _ := newTagEnv(t)
	u := e.user(t, "amira")
	seedTagged(t, e, u.ID, "go", 1)
	seedTagged(t, e, u.ID, "rust", 1)

	rows, err := svc.Trending(bg(), 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTrendingWithoutCache(t *testing.T) {
	e := newEnv(t)
	svc := NewTagService(repository.NewTagRepository(e.db), nil, time.Minute)
	u := e.user(t, "amira")
	seedTagged(t, e, u.ID, "go", 1)

	rows, err := svc.Trending(bg(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
