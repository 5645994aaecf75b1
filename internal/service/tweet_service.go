package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
	"github.com/theline-social/theline/pkg/logger"
	"github.com/theline-social/theline/pkg/media"
)

type MediaInput struct {
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"required,oneof=image video"`
}

type PollInput struct {
	Question  string     `json:"question" binding:"required,max=256"`
	Options   []string   `json:"options" binding:"required,min=2,max=6,dive,required,max=128"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type CreateTweetInput struct {
	Kind       model.Kind   `json:"kind" binding:"omitempty,oneof=original reply quote"`
	Text       string       `json:"text" binding:"max=1024"`
	OriginalID *uint        `json:"originalId,omitempty"`
	Media      []MediaInput `json:"media,omitempty" binding:"dive"`
	Poll       *PollInput   `json:"poll,omitempty"`
}

type TweetService interface {
	Create(ctx context.Context, authorID uint, in CreateTweetInput, lang string) (*projection.TweetDTO, error)
	Delete(ctx context.Context, actorID, id uint) error
	Get(ctx context.Context, viewerID, id uint, lang string) (*projection.TweetDTO, error)
	Replies(ctx context.Context, viewerID, parentID uint, page, limit int, lang string) ([]projection.TweetDTO, error)
}

type tweetService struct {
	tweets   repository.TweetRepository
	users    repository.UserRepository
	loader   *ProjectionLoader
	storage  media.Storage
	notifier NotificationService
}

func NewTweetService(
	tweets repository.TweetRepository,
	users repository.UserRepository,
	loader *ProjectionLoader,
	storage media.Storage,
	notifier NotificationService,
) TweetService {
	return &tweetService{tweets: tweets, users: users, loader: loader, storage: storage, notifier: notifier}
}

func (s *tweetService) Create(ctx context.Context, authorID uint, in CreateTweetInput, lang string) (*projection.TweetDTO, error) {
	kind := in.Kind
	if kind == "" {
		kind = model.KindOriginal
	}
	text := strings.TrimSpace(in.Text)

	var parentAuthorID uint
	switch kind {
	case model.KindOriginal:
		if text == "" && len(in.Media) == 0 {
			return nil, apperr.New(apperr.Invalid, "a tweet needs text or media")
		}
	case model.KindReply:
		if in.OriginalID == nil {
			return nil, apperr.New(apperr.Invalid, "a reply needs a target tweet")
		}
		parent, err := s.tweets.GetByID(ctx, *in.OriginalID)
		if err != nil {
			return nil, err
		}
		parentAuthorID = parent.AuthorID
		if text == "" && len(in.Media) == 0 {
			return nil, apperr.New(apperr.Invalid, "a reply needs text or media")
		}
	case model.KindQuote:
		if in.OriginalID == nil {
			return nil, apperr.New(apperr.Invalid, "a quote needs a target tweet")
		}
		if text == "" {
			return nil, apperr.New(apperr.Invalid, "a quote needs text")
		}
		if _, err := s.tweets.GetByID(ctx, *in.OriginalID); err != nil {
			return nil, err
		}
	case model.KindRepost:
		return nil, apperr.New(apperr.Invalid, "use the reshare endpoint for reposts")
	default:
		return nil, apperr.Newf(apperr.Invalid, "unknown tweet kind %q", kind)
	}

	mentions, mentionedIDs, err := s.resolveMentions(ctx, authorID, text)
	if err != nil {
		return nil, err
	}

	item := &model.Tweet{
		AuthorID:   authorID,
		Kind:       kind,
		Text:       text,
		OriginalID: in.OriginalID,
	}
	for _, m := range in.Media {
		item.Media = append(item.Media, model.TweetMedia{URL: m.URL, Type: m.Type})
	}
	var poll *model.Poll
	if in.Poll != nil {
		poll = &model.Poll{Question: in.Poll.Question, ExpiresAt: in.Poll.ExpiresAt}
		for i, label := range in.Poll.Options {
			poll.Options = append(poll.Options, model.PollOption{Position: i, Label: label})
		}
	}

	if err := s.tweets.Create(ctx, item, mentions, extractHashtags(text), poll); err != nil {
		return nil, err
	}

	// best effort: notification failures are the dispatcher's problem
	if parentAuthorID != 0 {
		s.notifier.Enqueue(authorID, parentAuthorID, model.NotificationReply, map[string]any{"tweetId": item.ID})
	}
	for _, mentioned := range mentionedIDs {
		s.notifier.Enqueue(authorID, mentioned, model.NotificationMention, map[string]any{"tweetId": item.ID})
	}

	return s.project(ctx, authorID, lang, item.ID)
}

// resolveMentions maps @handle tokens to existing users; unknown handles are
// skipped, not an error.
func (s *tweetService) resolveMentions(ctx context.Context, authorID uint, text string) ([]model.Mention, []uint, error) {
	handles := extractMentionHandles(text)
	if len(handles) == 0 {
		return nil, nil, nil
	}
	users, err := s.users.GetByHandles(ctx, handles)
	if err != nil {
		return nil, nil, err
	}
	var (
		mentions []model.Mention
		ids      []uint
	)
	for _, u := range users {
		mentions = append(mentions, model.Mention{MentionerID: authorID, MentionedID: u.ID})
		ids = append(ids, u.ID)
	}
	return mentions, ids, nil
}

func (s *tweetService) Delete(ctx context.Context, actorID, id uint) error {
	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.AuthorID != actorID {
		return apperr.New(apperr.Forbidden, "only the author can delete a tweet")
	}
	// media removal is best effort and must precede the row delete
	for _, m := range t.Media {
		if err := s.storage.Delete(ctx, m.URL); err != nil {
			logger.Warn("tweet media delete failed",
				zap.Uint("tweet", id),
				zap.String("url", m.URL),
				zap.Error(err))
		}
	}
	return s.tweets.Delete(ctx, id)
}

func (s *tweetService) Get(ctx context.Context, viewerID, id uint, lang string) (*projection.TweetDTO, error) {
	return s.project(ctx, viewerID, lang, id)
}

func (s *tweetService) Replies(ctx context.Context, viewerID, parentID uint, page, limit int, lang string) ([]projection.TweetDTO, error) {
	if _, err := s.tweets.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	page, limit = clampPage(page, limit)
	replies, err := s.tweets.Replies(ctx, parentID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	ptrs := tweetPtrs(replies)
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

func (s *tweetService) project(ctx context.Context, viewerID uint, lang string, id uint) (*projection.TweetDTO, error) {
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

func tweetPtrs(ts []model.Tweet) []*model.Tweet {
	out := make([]*model.Tweet, len(ts))
	for i := range ts {
		out[i] = &ts[i]
	}
	return out
}

func reelPtrs(rs []model.Reel) []*model.Reel {
	out := make([]*model.Reel, len(rs))
	for i := range rs {
		out[i] = &rs[i]
	}
	return out
}
