package service

import (
	"context"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

// ReshareResult reports what a reshare call did. Item is set when a repost
// or quote was created.
type ReshareResult struct {
	Message string               `json:"message"`
	Tweet   *projection.TweetDTO `json:"tweet,omitempty"`
	Reel    *projection.ReelDTO  `json:"reel,omitempty"`
}

type EngagementService interface {
	ToggleReact(ctx context.Context, ct model.ContentType, contentID, userID uint) error
	ToggleBookmark(ctx context.Context, ct model.ContentType, contentID, userID uint) error
	// ToggleVote validates the option index against the poll's option list
	// before toggling; a vote on a different option of the same poll moves.
	ToggleVote(ctx context.Context, pollID uint, optionIndex int, userID uint) error
	// ReshareTweet with quote text always creates a new quote item; without,
	// it toggles the user's plain repost of the content.
	ReshareTweet(ctx context.Context, contentID, userID uint, quote, lang string) (*ReshareResult, error)
	ReshareReel(ctx context.Context, contentID, userID uint, quote, lang string) (*ReshareResult, error)
}

type engagementService struct {
	engage   repository.EngagementRepository
	tweets   repository.TweetRepository
	reels    repository.ReelRepository
	polls    repository.PollRepository
	loader   *ProjectionLoader
	notifier NotificationService
}

func NewEngagementService(
	engage repository.EngagementRepository,
	tweets repository.TweetRepository,
	reels repository.ReelRepository,
	polls repository.PollRepository,
	loader *ProjectionLoader,
	notifier NotificationService,
) EngagementService {
	return &engagementService{
		engage:   engage,
		tweets:   tweets,
		reels:    reels,
		polls:    polls,
		loader:   loader,
		notifier: notifier,
	}
}

// contentAuthor resolves existence and authorship in one load.
func (s *engagementService) contentAuthor(ctx context.Context, ct model.ContentType, contentID uint) (uint, error) {
	switch ct {
	case model.ContentTweet:
		t, err := s.tweets.GetByID(ctx, contentID)
		if err != nil {
			return 0, err
		}
		return t.AuthorID, nil
	case model.ContentReel:
		r, err := s.reels.GetByID(ctx, contentID)
		if err != nil {
			return 0, err
		}
		return r.AuthorID, nil
	default:
		return 0, apperr.Newf(apperr.Invalid, "unknown content type %q", ct)
	}
}

func (s *engagementService) ToggleReact(ctx context.Context, ct model.ContentType, contentID, userID uint) error {
	authorID, err := s.contentAuthor(ctx, ct, contentID)
	if err != nil {
		return err
	}
	added, err := s.engage.ToggleReact(ctx, ct, contentID, userID)
	if err != nil {
		return err
	}
	if added && authorID != userID {
		s.notifier.Enqueue(userID, authorID, model.NotificationReact, map[string]any{
			"contentType": ct,
			"contentId":   contentID,
		})
	}
	return nil
}

func (s *engagementService) ToggleBookmark(ctx context.Context, ct model.ContentType, contentID, userID uint) error {
	if _, err := s.contentAuthor(ctx, ct, contentID); err != nil {
		return err
	}
	_, err := s.engage.ToggleBookmark(ctx, ct, contentID, userID)
	return err
}

func (s *engagementService) ToggleVote(ctx context.Context, pollID uint, optionIndex int, userID uint) error {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return apperr.Newf(apperr.Invalid, "option index %d out of range", optionIndex)
	}
	_, err = s.polls.ToggleVote(ctx, pollID, poll.Options[optionIndex].ID, userID)
	return err
}

func (s *engagementService) ReshareTweet(ctx context.Context, contentID, userID uint, quote, lang string) (*ReshareResult, error) {
	original, err := s.tweets.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	if quote != "" {
		item := &model.Tweet{
			AuthorID:   userID,
			Kind:       model.KindQuote,
			Text:       quote,
			OriginalID: &original.ID,
		}
		if err := s.tweets.Create(ctx, item, nil, nil, nil); err != nil {
			return nil, err
		}
		dto, err := s.projectTweet(ctx, userID, lang, item.ID)
		if err != nil {
			return nil, err
		}
		return &ReshareResult{Message: "quote added successfully", Tweet: dto}, nil
	}

	existing, err := s.tweets.PlainRepostByUser(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.tweets.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &ReshareResult{Message: "reshare deleted successfully"}, nil
	}

	item := &model.Tweet{AuthorID: userID, Kind: model.KindRepost, OriginalID: &original.ID}
	if err := s.tweets.Create(ctx, item, nil, nil, nil); err != nil {
		return nil, err
	}
	dto, err := s.projectTweet(ctx, userID, lang, item.ID)
	if err != nil {
		return nil, err
	}
	return &ReshareResult{Message: "reshare added successfully", Tweet: dto}, nil
}

func (s *engagementService) ReshareReel(ctx context.Context, contentID, userID uint, quote, lang string) (*ReshareResult, error) {
	original, err := s.reels.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	if quote != "" {
		item := &model.Reel{
			AuthorID:   userID,
			Kind:       model.KindQuote,
			Text:       quote,
			OriginalID: &original.ID,
		}
		if err := s.reels.Create(ctx, item, nil, nil, nil); err != nil {
			return nil, err
		}
		dto, err := s.projectReel(ctx, userID, lang, item.ID)
		if err != nil {
			return nil, err
		}
		return &ReshareResult{Message: "quote added successfully", Reel: dto}, nil
	}

	existing, err := s.reels.PlainRepostByUser(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.reels.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &ReshareResult{Message: "reshare deleted successfully"}, nil
	}

	item := &model.Reel{AuthorID: userID, Kind: model.KindRepost, OriginalID: &original.ID}
	if err := s.reels.Create(ctx, item, nil, nil, nil); err != nil {
		return nil, err
	}
	dto, err := s.projectReel(ctx, userID, lang, item.ID)
	if err != nil {
		return nil, err
	}
	return &ReshareResult{Message: "reshare added successfully", Reel: dto}, nil
}

func (s *engagementService) projectTweet(ctx context.Context, viewerID uint, lang string, id uint) (*projection.TweetDTO, error) {
	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.loader.tweetInputs(ctx, viewerID, lang, []*model.Tweet{t})
	if err != nil {
		return nil, err
	}
	dto := projection.Tweet(t, in)
	return &dto, nil
}

func (s *engagementService) projectReel(ctx context.Context, viewerID uint, lang string, id uint) (*projection.ReelDTO, error) {
	r, err := s.reels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.loader.reelInputs(ctx, viewerID, lang, []*model.Reel{r})
	if err != nil {
		return nil, err
	}
	dto := projection.Reel(r, in)
	return &dto, nil
}
