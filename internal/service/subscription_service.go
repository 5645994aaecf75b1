package service

import (
	"context"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

type SubscriptionService interface {
	Request(ctx context.Context, userID uint, tier string) (*model.SubscriptionRequest, error)
	Pending(ctx context.Context, page, limit int) ([]model.SubscriptionRequest, error)
	// Review settles a pending request; approval copies the tier onto the
	// user. Callers gate this behind employee auth.
	Review(ctx context.Context, requestID, reviewerID uint, approve bool) (*model.SubscriptionRequest, error)
}

type subscriptionService struct {
	subs  repository.SubscriptionRepository
	users repository.UserRepository
}

func NewSubscriptionService(subs repository.SubscriptionRepository, users repository.UserRepository) SubscriptionService {
	return &subscriptionService{subs: subs, users: users}
}

func (s *subscriptionService) Request(ctx context.Context, userID uint, tier string) (*model.SubscriptionRequest, error) {
	switch tier {
	case "premium", "business":
	default:
		return nil, apperr.Newf(apperr.Invalid, "unknown subscription tier %q", tier)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.SubscriptionTier == tier {
		return nil, apperr.New(apperr.Conflict, "already subscribed to this tier")
	}
	req := &model.SubscriptionRequest{UserID: userID, Tier: tier, Status: model.SubscriptionPending}
	if err := s.subs.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *subscriptionService) Pending(ctx context.Context, page, limit int) ([]model.SubscriptionRequest, error) {
	page, limit = clampPage(page, limit)
	return s.subs.PendingPage(ctx, (page-1)*limit, limit)
}

func (s *subscriptionService) Review(ctx context.Context, requestID, reviewerID uint, approve bool) (*model.SubscriptionRequest, error) {
	return s.subs.Review(ctx, requestID, reviewerID, approve)
}
