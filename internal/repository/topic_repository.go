package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type TopicRepository interface {
	Create(ctx context.Context, t *model.Topic) error
	Update(ctx context.Context, t *model.Topic) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Topic, error)
	List(ctx context.Context) ([]model.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository { return &topicRepository{db: db} }

func (r *topicRepository) Create(ctx context.Context, t *model.Topic) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *topicRepository) Update(ctx context.Context, t *model.Topic) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *topicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM reel_topics WHERE topic_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Topic{}, id).Error
	})
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (*model.Topic, error) {
	var t model.Topic
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "topic not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *topicRepository) List(ctx context.Context) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.db.WithContext(ctx).Order("id ASC").Find(&topics).Error
	return topics, err
}
