package service

import (
	"context"

	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

// FeedService assembles the home timelines. A page is followed content first,
// newest first, topped up with discovery content from strangers when the
// followed authors cannot fill it.
type FeedService interface {
	Timeline(ctx context.Context, viewerID uint, page, limit int, lang string) ([]projection.TweetDTO, error)
	ReelTimeline(ctx context.Context, viewerID uint, topicID uint, page, limit int, lang string) ([]projection.ReelDTO, error)
}

type feedService struct {
	users  repository.UserRepository
	rel    repository.RelationshipRepository
	tweets repository.TweetRepository
	reels  repository.ReelRepository
	loader *ProjectionLoader
}

func NewFeedService(
	users repository.UserRepository,
	rel repository.RelationshipRepository,
	tweets repository.TweetRepository,
	reels repository.ReelRepository,
	loader *ProjectionLoader,
) FeedService {
	return &feedService{users: users, rel: rel, tweets: tweets, reels: reels, loader: loader}
}

// feedScope resolves the author sets a viewer's feed is built from: who they
// follow, and who is barred in either direction.
func (s *feedService) feedScope(ctx context.Context, viewerID uint) (following, excluded []uint, err error) {
	ok, err := s.users.Exists(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperr.New(apperr.NotFound, "user not found")
	}
	following, err = s.rel.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	blocking, err := s.rel.BlockingIDs(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	blockedBy, err := s.rel.BlockedByIDs(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	seen := make(map[uint]bool, len(blocking)+len(blockedBy))
	for _, id := range blocking {
		if !seen[id] {
			seen[id] = true
			excluded = append(excluded, id)
		}
	}
	for _, id := range blockedBy {
		if !seen[id] {
			seen[id] = true
			excluded = append(excluded, id)
		}
	}
	return following, excluded, nil
}

// fillerExclusions widens the exclusion set so discovery filler never repeats
// followed authors or the viewer's own content.
func fillerExclusions(viewerID uint, following, excluded []uint) []uint {
	out := make([]uint, 0, len(following)+len(excluded)+1)
	seen := make(map[uint]bool, cap(out))
	for _, src := range [][]uint{excluded, following} {
		for _, id := range src {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	if !seen[viewerID] {
		out = append(out, viewerID)
	}
	return out
}

func (s *feedService) Timeline(ctx context.Context, viewerID uint, page, limit int, lang string) ([]projection.TweetDTO, error) {
	page, limit = clampPage(page, limit)
	following, excluded, err := s.feedScope(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	items, err := s.tweets.FeedPage(ctx, following, excluded, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if len(items) < limit {
		filler, err := s.tweets.DiscoveryPage(ctx, fillerExclusions(viewerID, following, excluded), limit-len(items))
		if err != nil {
			return nil, err
		}
		items = append(items, filler...)
	}

	ptrs := tweetPtrs(items)
	in, err := s.loader.tweetInputs(ctx, viewerID, lang, ptrs)
	if err != nil {
		return nil, err
	}
	out := make([]projection.TweetDTO, 0, len(ptrs))
	for _, t := range ptrs {
		out = append(out, projection.Tweet(t, in))
	}
	return out, nil
}

func (s *feedService) ReelTimeline(ctx context.Context, viewerID uint, topicID uint, page, limit int, lang string) ([]projection.ReelDTO, error) {
	page, limit = clampPage(page, limit)
	following, excluded, err := s.feedScope(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	items, err := s.reels.FeedPage(ctx, following, excluded, topicID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if len(items) < limit {
		filler, err := s.reels.DiscoveryPage(ctx, fillerExclusions(viewerID, following, excluded), topicID, limit-len(items))
		if err != nil {
			return nil, err
		}
		items = append(items, filler...)
	}

	ptrs := reelPtrs(items)
	in, err := s.loader.reelInputs(ctx, viewerID, lang, ptrs)
	if err != nil {
		return nil, err
	}
	out := make([]projection.ReelDTO, 0, len(ptrs))
	for _, r := range ptrs {
		out = append(out, projection.Reel(r, in))
	}
	return out, nil
}
