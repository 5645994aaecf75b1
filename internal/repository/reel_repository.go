package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type ReelRepository interface {
	Create(ctx context.Context, reel *model.Reel, mentions []model.Mention, tagNames []string, topicIDs []uint) error
	GetByID(ctx context.Context, id uint) (*model.Reel, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)

	FeedPage(ctx context.Context, authorIDs, excludedAuthorIDs []uint, topicID uint, offset, limit int) ([]model.Reel, error)
	DiscoveryPage(ctx context.Context, excludedAuthorIDs []uint, topicID uint, limit int) ([]model.Reel, error)
	Replies(ctx context.Context, parentID uint, offset, limit int) ([]model.Reel, error)

	ReplyCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	ReshareCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	ResharedSet(ctx context.Context, viewerID uint, ids []uint) (map[uint]bool, error)
	PlainRepostByUser(ctx context.Context, originalID, userID uint) (*model.Reel, error)
}

type reelRepository struct {
	db *gorm.DB
}

func NewReelRepository(db *gorm.DB) ReelRepository { return &reelRepository{db: db} }

func (r *reelRepository) Create(ctx context.Context, reel *model.Reel, mentions []model.Mention, tagNames []string, topicIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(topicIDs) > 0 {
			var topics []model.Topic
			if err := tx.Where("id IN ?", topicIDs).Find(&topics).Error; err != nil {
				return err
			}
			if len(topics) != len(topicIDs) {
				return apperr.New(apperr.NotFound, "topic not found")
			}
			reel.Topics = topics
		}
		if err := tx.Create(reel).Error; err != nil {
			return err
		}
		for i := range mentions {
			mentions[i].ContentType = model.ContentReel
			mentions[i].ContentID = reel.ID
		}
		if len(mentions) > 0 {
			if err := tx.Create(&mentions).Error; err != nil {
				return err
			}
		}
		return linkTags(tx, model.ContentReel, reel.ID, tagNames)
	})
}

func (r *reelRepository) GetByID(ctx context.Context, id uint) (*model.Reel, error) {
	var reel model.Reel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Topics").
		Preload("Original.Author").
		Preload("Original.Topics").
		First(&reel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "reel not found")
		}
		return nil, err
	}
	return &reel, nil
}

func (r *reelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, mdl := range []any{&model.React{}, &model.Bookmark{}, &model.Mention{}, &model.TagLink{}} {
			if err := tx.Where("content_type = ? AND content_id = ?", model.ContentReel, id).Delete(mdl).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM reel_topics WHERE reel_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Reel{}, id).Error
	})
}

func (r *reelRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Reel{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *reelRepository) feedQuery(ctx context.Context, topicID uint) *gorm.DB {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Topics").
		Preload("Original.Author").
		Preload("Original.Topics").
		Where("reels.kind IN ?", model.FeedKinds).
		Order("reels.created_at DESC")
	if topicID != 0 {
		q = q.Joins("JOIN reel_topics ON reel_topics.reel_id = reels.id AND reel_topics.topic_id = ?", topicID)
	}
	return q
}

func (r *reelRepository) FeedPage(ctx context.Context, authorIDs, excludedAuthorIDs []uint, topicID uint, offset, limit int) ([]model.Reel, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	q := r.feedQuery(ctx, topicID).Where("reels.author_id IN ?", authorIDs)
	if len(excludedAuthorIDs) > 0 {
		q = q.Where("reels.author_id NOT IN ?", excludedAuthorIDs)
	}
	var reels []model.Reel
	err := q.Offset(offset).Limit(limit).Find(&reels).Error
	return reels, err
}

func (r *reelRepository) DiscoveryPage(ctx context.Context, excludedAuthorIDs []uint, topicID uint, limit int) ([]model.Reel, error) {
	q := r.feedQuery(ctx, topicID)
	if len(excludedAuthorIDs) > 0 {
		q = q.Where("reels.author_id NOT IN ?", excludedAuthorIDs)
	}
	var reels []model.Reel
	err := q.Limit(limit).Find(&reels).Error
	return reels, err
}

func (r *reelRepository) Replies(ctx context.Context, parentID uint, offset, limit int) ([]model.Reel, error) {
	var reels []model.Reel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("kind = ? AND original_id = ?", model.KindReply, parentID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reels).Error
	return reels, err
}

func (r *reelRepository) ReplyCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return r.referenceCounts(ctx, ids, []model.Kind{model.KindReply})
}

func (r *reelRepository) ReshareCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return r.referenceCounts(ctx, ids, []model.Kind{model.KindRepost, model.KindQuote})
}

func (r *reelRepository) referenceCounts(ctx context.Context, ids []uint, kinds []model.Kind) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).Model(&model.Reel{}).
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

func (r *reelRepository) ResharedSet(ctx context.Context, viewerID uint, ids []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var hit []uint
	err := r.db.WithContext(ctx).Model(&model.Reel{}).
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

func (r *reelRepository) PlainRepostByUser(ctx context.Context, originalID, userID uint) (*model.Reel, error) {
	var reel model.Reel
	err := r.db.WithContext(ctx).
		Where("kind = ? AND original_id = ? AND author_id = ?", model.KindRepost, originalID, userID).
		First(&reel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reel, nil
}
