package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Page(ctx context.Context, recipientID uint, offset, limit int) ([]model.Notification, error)
	UnseenCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAllSeen(ctx context.Context, recipientID uint) error
	// DeleteSeenBefore implements the retention policy: seen rows older than
	// the cutoff are dropped.
	DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) Page(ctx context.Context, recipientID uint, offset, limit int) ([]model.Notification, error) {
	var rows []model.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *notificationRepository) UnseenCount(ctx context.Context, recipientID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_seen = ?", recipientID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_seen = ?", recipientID, false).
		Update("is_seen", true).Error
}

func (r *notificationRepository) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_seen = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
