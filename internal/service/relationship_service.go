package service

import (
	"context"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

// RelationshipService owns the follow/mute/block toggles. Targets arrive as
// handles because that is what the routes carry.
type RelationshipService interface {
	ToggleFollow(ctx context.Context, actorID uint, targetHandle string) (added bool, err error)
	ToggleMute(ctx context.Context, actorID uint, targetHandle string) (added bool, err error)
	ToggleBlock(ctx context.Context, actorID uint, targetHandle string) (added bool, err error)
}

type relationshipService struct {
	users    repository.UserRepository
	rel      repository.RelationshipRepository
	notifier NotificationService
}

func NewRelationshipService(users repository.UserRepository, rel repository.RelationshipRepository, notifier NotificationService) RelationshipService {
	return &relationshipService{users: users, rel: rel, notifier: notifier}
}

func (s *relationshipService) resolveTarget(ctx context.Context, actorID uint, targetHandle string) (*model.User, error) {
	target, err := s.users.GetByHandle(ctx, targetHandle)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID {
		return nil, apperr.New(apperr.Invalid, "cannot target yourself")
	}
	if ok, err := s.users.Exists(ctx, actorID); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return target, nil
}

func (s *relationshipService) ToggleFollow(ctx context.Context, actorID uint, targetHandle string) (bool, error) {
	target, err := s.resolveTarget(ctx, actorID, targetHandle)
	if err != nil {
		return false, err
	}
	added, err := s.rel.ToggleFollow(ctx, actorID, target.ID)
	if err != nil {
		return false, err
	}
	if added {
		// fire and forget: a failed notification never rolls back the edge
		s.notifier.Enqueue(actorID, target.ID, model.NotificationFollow, nil)
	}
	return added, nil
}

func (s *relationshipService) ToggleMute(ctx context.Context, actorID uint, targetHandle string) (bool, error) {
	target, err := s.resolveTarget(ctx, actorID, targetHandle)
	if err != nil {
		return false, err
	}
	return s.rel.ToggleMute(ctx, actorID, target.ID)
}

func (s *relationshipService) ToggleBlock(ctx context.Context, actorID uint, targetHandle string) (bool, error) {
	target, err := s.resolveTarget(ctx, actorID, targetHandle)
	if err != nil {
		return false, err
	}
	return s.rel.ToggleBlock(ctx, actorID, target.ID)
}
