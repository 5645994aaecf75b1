package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
	"github.com/theline-social/theline/pkg/logger"
	"github.com/theline-social/theline/pkg/media"
)

type CreateReelInput struct {
	Kind       model.Kind `json:"kind" binding:"omitempty,oneof=original reply quote"`
	Text       string     `json:"text" binding:"max=1024"`
	VideoURL   string     `json:"videoUrl"`
	ThumbURL   string     `json:"thumbUrl"`
	OriginalID *uint      `json:"originalId,omitempty"`
	TopicIDs   []uint     `json:"topicIds,omitempty"`
}

type ReelService interface {
	Create(ctx context.Context, authorID uint, in CreateReelInput, lang string) (*projection.ReelDTO, error)
	Delete(ctx context.Context, actorID, id uint) error
	Get(ctx context.Context, viewerID, id uint, lang string) (*projection.ReelDTO, error)
	Replies(ctx context.Context, viewerID, parentID uint, page, limit int, lang string) ([]projection.ReelDTO, error)
}

type reelService struct {
	reels    repository.ReelRepository
	users    repository.UserRepository
	loader   *ProjectionLoader
	storage  media.Storage
	notifier NotificationService
}

func NewReelService(
	reels repository.ReelRepository,
	users repository.UserRepository,
	loader *ProjectionLoader,
	storage media.Storage,
	notifier NotificationService,
) ReelService {
	return &reelService{reels: reels, users: users, loader: loader, storage: storage, notifier: notifier}
}

func (s *reelService) Create(ctx context.Context, authorID uint, in CreateReelInput, lang string) (*projection.ReelDTO, error) {
	kind := in.Kind
	if kind == "" {
		kind = model.KindOriginal
	}
	text := strings.TrimSpace(in.Text)

	var parentAuthorID uint
	switch kind {
	case model.KindOriginal:
		if in.VideoURL == "" {
			return nil, apperr.New(apperr.Invalid, "a reel needs a video")
		}
	case model.KindReply:
		if in.OriginalID == nil {
			return nil, apperr.New(apperr.Invalid, "a reply needs a target reel")
		}
		parent, err := s.reels.GetByID(ctx, *in.OriginalID)
		if err != nil {
			return nil, err
		}
		parentAuthorID = parent.AuthorID
		if text == "" && in.VideoURL == "" {
			return nil, apperr.New(apperr.Invalid, "a reply needs text or a video")
		}
	case model.KindQuote:
		if in.OriginalID == nil {
			return nil, apperr.New(apperr.Invalid, "a quote needs a target reel")
		}
		if text == "" {
			return nil, apperr.New(apperr.Invalid, "a quote needs text")
		}
		if _, err := s.reels.GetByID(ctx, *in.OriginalID); err != nil {
			return nil, err
		}
	case model.KindRepost:
		return nil, apperr.New(apperr.Invalid, "use the reshare endpoint for reposts")
	default:
		return nil, apperr.Newf(apperr.Invalid, "unknown reel kind %q", kind)
	}

	handles := extractMentionHandles(text)
	var (
		mentions     []model.Mention
		mentionedIDs []uint
	)
	if len(handles) > 0 {
		users, err := s.users.GetByHandles(ctx, handles)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			mentions = append(mentions, model.Mention{MentionerID: authorID, MentionedID: u.ID})
			mentionedIDs = append(mentionedIDs, u.ID)
		}
	}

	item := &model.Reel{
		AuthorID:   authorID,
		Kind:       kind,
		Text:       text,
		VideoURL:   in.VideoURL,
		ThumbURL:   in.ThumbURL,
		OriginalID: in.OriginalID,
	}
	if err := s.reels.Create(ctx, item, mentions, extractHashtags(text), in.TopicIDs); err != nil {
		return nil, err
	}

	if parentAuthorID != 0 {
		s.notifier.Enqueue(authorID, parentAuthorID, model.NotificationReply, map[string]any{"reelId": item.ID})
	}
	for _, mentioned := range mentionedIDs {
		s.notifier.Enqueue(authorID, mentioned, model.NotificationMention, map[string]any{"reelId": item.ID})
	}

	return s.project(ctx, authorID, lang, item.ID)
}

func (s *reelService) Delete(ctx context.Context, actorID, id uint) error {
	r, err := s.reels.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.AuthorID != actorID {
		return apperr.New(apperr.Forbidden, "only the author can delete a reel")
	}
	for _, url := range []string{r.VideoURL, r.ThumbURL} {
		if url == "" {
			continue
		}
		if err := s.storage.Delete(ctx, url); err != nil {
			logger.Warn("reel media delete failed",
				zap.Uint("reel", id),
				zap.String("url", url),
				zap.Error(err))
		}
	}
	return s.reels.Delete(ctx, id)
}

func (s *reelService) Get(ctx context.Context, viewerID, id uint, lang string) (*projection.ReelDTO, error) {
	return s.project(ctx, viewerID, lang, id)
}

func (s *reelService) Replies(ctx context.Context, viewerID, parentID uint, page, limit int, lang string) ([]projection.ReelDTO, error) {
	if _, err := s.reels.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	page, limit = clampPage(page, limit)
	replies, err := s.reels.Replies(ctx, parentID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	ptrs := reelPtrs(replies)
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

func (s *reelService) project(ctx context.Context, viewerID uint, lang string, id uint) (*projection.ReelDTO, error) {
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
