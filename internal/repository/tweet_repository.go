package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type TweetRepository interface {
	// Create persists the tweet together with its mentions, hashtag links
	// and poll in a single transaction.
	Create(ctx context.Context, t *model.Tweet, mentions []model.Mention, tagNames []string, poll *model.Poll) error
	GetByID(ctx context.Context, id uint) (*model.Tweet, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)

	// FeedPage returns feed-eligible tweets by the given authors, newest
	// first, skipping excluded authors.
	FeedPage(ctx context.Context, authorIDs, excludedAuthorIDs []uint, offset, limit int) ([]model.Tweet, error)
	// DiscoveryPage returns filler from everyone else. No offset: filler
	// always starts from the newest discovery content (documented behavior).
	DiscoveryPage(ctx context.Context, excludedAuthorIDs []uint, limit int) ([]model.Tweet, error)
	Replies(ctx context.Context, parentID uint, offset, limit int) ([]model.Tweet, error)
	ByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]model.Tweet, error)

	ReplyCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	ReshareCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	ResharedSet(ctx context.Context, viewerID uint, ids []uint) (map[uint]bool, error)
	PlainRepostByUser(ctx context.Context, originalID, userID uint) (*model.Tweet, error)
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet, mentions []model.Mention, tagNames []string, poll *model.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		for i := range mentions {
			mentions[i].ContentType = model.ContentTweet
			mentions[i].ContentID = t.ID
		}
		if len(mentions) > 0 {
			if err := tx.Create(&mentions).Error; err != nil {
				return err
			}
		}
		if err := linkTags(tx, model.ContentTweet, t.ID, tagNames); err != nil {
			return err
		}
		if poll != nil {
			poll.ContentType = model.ContentTweet
			poll.ContentID = t.ID
			if err := tx.Create(poll).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// linkTags upserts hashtags by name and attaches them to a content item.
func linkTags(tx *gorm.DB, ct model.ContentType, contentID uint, names []string) error {
	for _, name := range names {
		tag := model.Tag{Name: name}
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		link := model.TagLink{TagID: tag.ID, ContentType: ct, ContentID: contentID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*model.Tweet, error) {
	var t model.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Preload("Original.Author").
		Preload("Original.Media").
		First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "tweet not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// engagement edges and tag links are polymorphic, so the schema
		// cascade cannot reach them
		for _, mdl := range []any{&model.React{}, &model.Bookmark{}, &model.Mention{}, &model.TagLink{}} {
			if err := tx.Where("content_type = ? AND content_id = ?", model.ContentTweet, id).Delete(mdl).Error; err != nil {
				return err
			}
		}
		var poll model.Poll
		err := tx.Where("content_type = ? AND content_id = ?", model.ContentTweet, id).First(&poll).Error
		if err == nil {
			if err := tx.Where("poll_id = ?", poll.ID).Delete(&model.PollVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("poll_id = ?", poll.ID).Delete(&model.PollOption{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&poll).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Where("tweet_id = ?", id).Delete(&model.TweetMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tweet{}, id).Error
	})
}

func (r *tweetRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *tweetRepository) feedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Preload("Original.Author").
		Preload("Original.Media").
		Where("kind IN ?", model.FeedKinds).
		Order("created_at DESC")
}

func (r *tweetRepository) FeedPage(ctx context.Context, authorIDs, excludedAuthorIDs []uint, offset, limit int) ([]model.Tweet, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	q := r.feedQuery(ctx).Where("author_id IN ?", authorIDs)
	if len(excludedAuthorIDs) > 0 {
		q = q.Where("author_id NOT IN ?", excludedAuthorIDs)
	}
	var tweets []model.Tweet
	err := q.Offset(offset).Limit(limit).Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) DiscoveryPage(ctx context.Context, excludedAuthorIDs []uint, limit int) ([]model.Tweet, error) {
	q := r.feedQuery(ctx)
	if len(excludedAuthorIDs) > 0 {
		q = q.Where("author_id NOT IN ?", excludedAuthorIDs)
	}
	var tweets []model.Tweet
	err := q.Limit(limit).Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) Replies(ctx context.Context, parentID uint, offset, limit int) ([]model.Tweet, error) {
	var tweets []model.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Where("kind = ? AND original_id = ?", model.KindReply, parentID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) ByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]model.Tweet, error) {
	var tweets []model.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Media").
		Preload("Original.Author").
		Preload("Original.Media").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) ReplyCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return r.referenceCounts(ctx, ids, []model.Kind{model.KindReply})
}

func (r *tweetRepository) ReshareCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return r.referenceCounts(ctx, ids, []model.Kind{model.KindRepost, model.KindQuote})
}

func (r *tweetRepository) referenceCounts(ctx context.Context, ids []uint, kinds []model.Kind) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).
		Select("original_id AS id, COUNT(*) AS cnt").
		Where("kind IN ? AND original_id IN ?", kinds, ids).
		Group("original_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Cnt
	}
	return out, nil
}

func (r *tweetRepository) ResharedSet(ctx context.Context, viewerID uint, ids []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var hit []uint
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).
		Where("kind IN ? AND author_id = ? AND original_id IN ?",
			[]model.Kind{model.KindRepost, model.KindQuote}, viewerID, ids).
		Pluck("original_id", &hit).Error
	if err != nil {
		return nil, err
	}
	for _, id := range hit {
		out[id] = true
	}
	return out, nil
}

func (r *tweetRepository) PlainRepostByUser(ctx context.Context, originalID, userID uint) (*model.Tweet, error) {
	var t model.Tweet
	err := r.db.WithContext(ctx).
		Where("kind = ? AND original_id = ? AND author_id = ?", model.KindRepost, originalID, userID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
