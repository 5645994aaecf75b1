package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, req *model.SubscriptionRequest) error
	GetByID(ctx context.Context, id uint) (*model.SubscriptionRequest, error)
	PendingPage(ctx context.Context, offset, limit int) ([]model.SubscriptionRequest, error)
	// Review settles a pending request; approval copies the tier onto the
	// user in the same transaction.
	Review(ctx context.Context, id, reviewerID uint, approve bool) (*model.SubscriptionRequest, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, req *model.SubscriptionRequest) error {
	var pending int64
	err := r.db.WithContext(ctx).Model(&model.SubscriptionRequest{}).
		Where("user_id = ? AND status = ?", req.UserID, model.SubscriptionPending).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending > 0 {
		return apperr.New(apperr.Conflict, "a subscription request is already pending")
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uint) (*model.SubscriptionRequest, error) {
	var req model.SubscriptionRequest
	err := r.db.WithContext(ctx).Preload("User").First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "subscription request not found")
		}
		return nil, err
	}
	return &req, nil
}

func (r *subscriptionRepository) PendingPage(ctx context.Context, offset, limit int) ([]model.SubscriptionRequest, error) {
	var reqs []model.SubscriptionRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.SubscriptionPending).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

func (r *subscriptionRepository) Review(ctx context.Context, id, reviewerID uint, approve bool) (*model.SubscriptionRequest, error) {
	var req model.SubscriptionRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "subscription request not found")
			}
			return err
		}
		if req.Status != model.SubscriptionPending {
			return apperr.New(apperr.Conflict, "subscription request already reviewed")
		}
		status := model.SubscriptionRejected
		if approve {
			status = model.SubscriptionApproved
		}
		if err := tx.Model(&req).Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewerID,
		}).Error; err != nil {
			return err
		}
		if approve {
			return tx.Model(&model.User{}).
				Where("id = ?", req.UserID).
				Update("subscription_tier", req.Tier).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
