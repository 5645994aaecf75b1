package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
)

type EngagementRepository interface {
	ToggleReact(ctx context.Context, ct model.ContentType, contentID, userID uint) (added bool, err error)
	ToggleBookmark(ctx context.Context, ct model.ContentType, contentID, userID uint) (added bool, err error)

	// Batched lookups feeding the projector; one query per concern per page.
	ReactCounts(ctx context.Context, ct model.ContentType, contentIDs []uint) (map[uint]int64, error)
	ReactedSet(ctx context.Context, ct model.ContentType, userID uint, contentIDs []uint) (map[uint]bool, error)
	BookmarkedSet(ctx context.Context, ct model.ContentType, userID uint, contentIDs []uint) (map[uint]bool, error)
	MentionsFor(ctx context.Context, ct model.ContentType, contentIDs []uint) (map[uint][]model.Mention, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) ToggleReact(ctx context.Context, ct model.ContentType, contentID, userID uint) (bool, error) {
	return toggleEdge(ctx, r.db,
		"content_type = ? AND content_id = ? AND user_id = ?", []any{ct, contentID, userID},
		&model.React{ContentType: ct, ContentID: contentID, UserID: userID})
}

func (r *engagementRepository) ToggleBookmark(ctx context.Context, ct model.ContentType, contentID, userID uint) (bool, error) {
	return toggleEdge(ctx, r.db,
		"content_type = ? AND content_id = ? AND user_id = ?", []any{ct, contentID, userID},
		&model.Bookmark{ContentType: ct, ContentID: contentID, UserID: userID})
}

func (r *engagementRepository) ReactCounts(ctx context.Context, ct model.ContentType, contentIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).Model(&model.React{}).
		Select("content_id AS id, COUNT(*) AS cnt").
		Where("content_type = ? AND content_id IN ?", ct, contentIDs).
		Group("content_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Cnt
	}
	return out, nil
}

func (r *engagementRepository) ReactedSet(ctx context.Context, ct model.ContentType, userID uint, contentIDs []uint) (map[uint]bool, error) {
	return r.memberSet(ctx, &model.React{}, ct, userID, contentIDs)
}

func (r *engagementRepository) BookmarkedSet(ctx context.Context, ct model.ContentType, userID uint, contentIDs []uint) (map[uint]bool, error) {
	return r.memberSet(ctx, &model.Bookmark{}, ct, userID, contentIDs)
}

func (r *engagementRepository) memberSet(ctx context.Context, mdl any, ct model.ContentType, userID uint, contentIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(mdl).
		Where("content_type = ? AND user_id = ? AND content_id IN ?", ct, userID, contentIDs).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *engagementRepository) MentionsFor(ctx context.Context, ct model.ContentType, contentIDs []uint) (map[uint][]model.Mention, error) {
	out := make(map[uint][]model.Mention, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	var mentions []model.Mention
	err := r.db.WithContext(ctx).
		Preload("Mentioned").
		Where("content_type = ? AND content_id IN ?", ct, contentIDs).
		Order("content_id, created_at ASC").
		Find(&mentions).Error
	if err != nil {
		return nil, err
	}
	for _, m := range mentions {
		out[m.ContentID] = append(out[m.ContentID], m)
	}
	return out, nil
}
