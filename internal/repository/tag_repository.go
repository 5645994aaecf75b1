package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
)

// TrendingTag is a tag with its distinct-content usage rank.
type TrendingTag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Uses int64  `json:"uses"`
}

type TagRepository interface {
	// Trending ranks tags by distinct associated content items across both
	// content tables (tag_links covers tweets and reels alike).
	Trending(ctx context.Context, limit int) ([]TrendingTag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) Trending(ctx context.Context, limit int) ([]TrendingTag, error) {
	var rows []TrendingTag
	err := r.db.WithContext(ctx).Model(&model.Tag{}).
		Select("tags.id, tags.name, COUNT(tag_links.id) AS uses").
		Joins("JOIN tag_links ON tag_links.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("uses DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
