package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

// VoteAction reports what a vote toggle did.
type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
	VoteMoved   VoteAction = "moved"
)

type PollRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Poll, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ForContent(ctx context.Context, ct model.ContentType, contentIDs []uint) (map[uint]*model.Poll, error)

	// ToggleVote: same option removes the vote, a different option of the
	// same poll moves it, no prior vote adds one. One transaction; the
	// (poll_id, user_id) unique index caps a user at one vote per poll.
	ToggleVote(ctx context.Context, pollID, optionID, userID uint) (VoteAction, error)

	VotesFor(ctx context.Context, pollIDs []uint) (map[uint][]model.PollVote, error)
}

type pollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) PollRepository { return &pollRepository{db: db} }

func (r *pollRepository) GetByID(ctx context.Context, id uint) (*model.Poll, error) {
	var poll model.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&poll, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "poll not found")
		}
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Poll{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *pollRepository) ForContent(ctx context.Context, ct model.ContentType, contentIDs []uint) (map[uint]*model.Poll, error) {
	out := make(map[uint]*model.Poll, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	var polls []model.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("content_type = ? AND content_id IN ?", ct, contentIDs).
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	for i := range polls {
		out[polls[i].ContentID] = &polls[i]
	}
	return out, nil
}

func (r *pollRepository) ToggleVote(ctx context.Context, pollID, optionID, userID uint) (VoteAction, error) {
	var action VoteAction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.PollVote
		err := tx.Where("poll_id = ? AND user_id = ?", pollID, userID).First(&existing).Error
		switch {
		case err == nil && existing.OptionID == optionID:
			action = VoteRemoved
			return tx.Delete(&existing).Error
		case err == nil:
			action = VoteMoved
			return tx.Model(&existing).Update("option_id", optionID).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			action = VoteAdded
			vote := model.PollVote{PollID: pollID, OptionID: optionID, UserID: userID}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote).Error
		default:
			return err
		}
	})
	return action, err
}

func (r *pollRepository) VotesFor(ctx context.Context, pollIDs []uint) (map[uint][]model.PollVote, error) {
	out := make(map[uint][]model.PollVote, len(pollIDs))
	if len(pollIDs) == 0 {
		return out, nil
	}
	var votes []model.PollVote
	err := r.db.WithContext(ctx).Where("poll_id IN ?", pollIDs).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.PollID] = append(out[v.PollID], v)
	}
	return out, nil
}
