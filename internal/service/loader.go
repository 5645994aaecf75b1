package service

import (
	"context"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
)

// ProjectionLoader batches every lookup the projector needs for a page of
// content: one query per concern, never per item. Shared by the feed, the
// single-item views and the reply pages.
type ProjectionLoader struct {
	users  repository.UserRepository
	rel    repository.RelationshipRepository
	engage repository.EngagementRepository
	tweets repository.TweetRepository
	reels  repository.ReelRepository
	polls  repository.PollRepository
}

func NewProjectionLoader(
	users repository.UserRepository,
	rel repository.RelationshipRepository,
	engage repository.EngagementRepository,
	tweets repository.TweetRepository,
	reels repository.ReelRepository,
	polls repository.PollRepository,
) *ProjectionLoader {
	return &ProjectionLoader{users: users, rel: rel, engage: engage, tweets: tweets, reels: reels, polls: polls}
}

func (l *ProjectionLoader) relationSets(ctx context.Context, viewerID uint) (projection.RelationSets, error) {
	following, err := l.rel.FollowingIDs(ctx, viewerID)
	if err != nil {
		return projection.RelationSets{}, err
	}
	muting, err := l.rel.MutingIDs(ctx, viewerID)
	if err != nil {
		return projection.RelationSets{}, err
	}
	blocking, err := l.rel.BlockingIDs(ctx, viewerID)
	if err != nil {
		return projection.RelationSets{}, err
	}
	return projection.NewRelationSets(following, muting, blocking), nil
}

func (l *ProjectionLoader) userStats(ctx context.Context, userIDs []uint) (map[uint]projection.UserStats, error) {
	followers, err := l.rel.FollowerCounts(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	following, err := l.rel.FollowingCounts(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	stats := make(map[uint]projection.UserStats, len(userIDs))
	for _, id := range userIDs {
		stats[id] = projection.UserStats{Followers: followers[id], Following: following[id]}
	}
	return stats, nil
}

// tweetInputs assembles projection inputs for a page of tweets, covering
// each item and its one-level original.
func (l *ProjectionLoader) tweetInputs(ctx context.Context, viewerID uint, lang string, tweets []*model.Tweet) (projection.Inputs, error) {
	contentIDs := make([]uint, 0, len(tweets)*2)
	authorIDs := make([]uint, 0, len(tweets)*2)
	seenContent := map[uint]bool{}
	seenAuthor := map[uint]bool{}
	add := func(id uint, authorID uint) {
		if !seenContent[id] {
			seenContent[id] = true
			contentIDs = append(contentIDs, id)
		}
		if !seenAuthor[authorID] {
			seenAuthor[authorID] = true
			authorIDs = append(authorIDs, authorID)
		}
	}
	for _, t := range tweets {
		add(t.ID, t.AuthorID)
		if t.Original != nil {
			add(t.Original.ID, t.Original.AuthorID)
		}
	}

	in := projection.Inputs{ViewerID: viewerID, Lang: lang}
	var err error
	if in.Rel, err = l.relationSets(ctx, viewerID); err != nil {
		return in, err
	}
	if in.UserStats, err = l.userStats(ctx, authorIDs); err != nil {
		return in, err
	}
	if in.ReactCounts, err = l.engage.ReactCounts(ctx, model.ContentTweet, contentIDs); err != nil {
		return in, err
	}
	if in.Reacted, err = l.engage.ReactedSet(ctx, model.ContentTweet, viewerID, contentIDs); err != nil {
		return in, err
	}
	if in.Bookmarked, err = l.engage.BookmarkedSet(ctx, model.ContentTweet, viewerID, contentIDs); err != nil {
		return in, err
	}
	if in.Mentions, err = l.engage.MentionsFor(ctx, model.ContentTweet, contentIDs); err != nil {
		return in, err
	}
	if in.ReshareCounts, err = l.tweets.ReshareCounts(ctx, contentIDs); err != nil {
		return in, err
	}
	if in.ReplyCounts, err = l.tweets.ReplyCounts(ctx, contentIDs); err != nil {
		return in, err
	}
	if in.Reshared, err = l.tweets.ResharedSet(ctx, viewerID, contentIDs); err != nil {
		return in, err
	}
	if in.Polls, err = l.polls.ForContent(ctx, model.ContentTweet, contentIDs); err != nil {
		return in, err
	}
	pollIDs := make([]uint, 0, len(in.Polls))
	for _, p := range in.Polls {
		pollIDs = append(pollIDs, p.ID)
	}
	if in.Votes, err = l.polls.VotesFor(ctx, pollIDs); err != nil {
		return in, err
	}
	return in, nil
}

func (l *ProjectionLoader) reelInputs(ctx context.Context, viewerID uint, lang string, reels []*model.Reel) (projection.Inputs, error) {
	contentIDs := make([]uint, 0, len(reels)*2)
	authorIDs := make([]uint, 0, len(reels)*2)
	seenContent := map[uint]bool{}
	seenAuthor := map[uint]bool{}
	add := func(id uint, authorID uint) {
		if !seenContent[id] {
			seenContent[id] = true
			contentIDs = append(contentIDs, id)
		}
		if !seenAuthor[authorID] {
			seenAuthor[authorID] = true
			authorIDs = append(authorIDs, authorID)
		}
	}
	for _, r := range reels {
		add(r.ID, r.AuthorID)
		if r.Original != nil {
			add(r.Original.ID, r.Original.AuthorID)
		}
	}

	in := projection.Inputs{ViewerID: viewerID, Lang: lang}
	var err error
	if in.Rel, err = l.relationSets(ctx, viewerID); err != nil {
		return in, err
	}
	if in.UserStats, err = l.userStats(ctx, authorIDs); err != nil {
		return in, err
	}
	if in.ReactCounts, err = l.engage.ReactCounts(ctx, model.ContentReel, contentIDs); err != nil {
		return in, err
	}
	if in.Reacted, err = l.engage.ReactedSet(ctx, model.ContentReel, viewerID, contentIDs); err != nil {
		return in, err
	}
	if in.Bookmarked, err = l.engage.BookmarkedSet(ctx, model.ContentReel, viewerID, contentIDs); err != nil {
		return in, err
	}
	if in.Mentions, err = l.engage.MentionsFor(ctx, model.ContentReel, contentIDs); err != nil {
		return in, err
	}
	if in.ReshareCounts, err = l.reels.ReshareCounts(ctx, contentIDs); err != nil {
		return in, err
	}
	if in.ReplyCounts, err = l.reels.ReplyCounts(ctx, contentIDs); err != nil {
		return in, err
	}
	if in.Reshared, err = l.reels.ResharedSet(ctx, viewerID, contentIDs); err != nil {
		return in, err
	}
	if in.Polls, err = l.polls.ForContent(ctx, model.ContentReel, contentIDs); err != nil {
		return in, err
	}
	pollIDs := make([]uint, 0, len(in.Polls))
	for _, p := range in.Polls {
		pollIDs = append(pollIDs, p.ID)
	}
	if in.Votes, err = l.polls.VotesFor(ctx, pollIDs); err != nil {
		return in, err
	}
	return in, nil
}
