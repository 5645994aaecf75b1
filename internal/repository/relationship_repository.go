package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theline-social/theline/internal/model"
)

type RelationshipRepository interface {
	ToggleFollow(ctx context.Context, followerID, followeeID uint) (added bool, err error)
	ToggleMute(ctx context.Context, muterID, mutedID uint) (added bool, err error)
	// ToggleBlock removes follow edges in both directions when the block is
	// added, all in one transaction.
	ToggleBlock(ctx context.Context, blockerID, blockedID uint) (added bool, err error)

	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsMuting(ctx context.Context, muterID, mutedID uint) (bool, error)
	IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error)

	FollowersCount(ctx context.Context, userID uint) (int64, error)
	FollowingCount(ctx context.Context, userID uint) (int64, error)

	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	MutingIDs(ctx context.Context, userID uint) ([]uint, error)
	BlockingIDs(ctx context.Context, userID uint) ([]uint, error)
	BlockedByIDs(ctx context.Context, userID uint) ([]uint, error)

	FollowersPage(ctx context.Context, userID uint, offset, limit int) ([]uint, error)
	FollowingPage(ctx context.Context, userID uint, offset, limit int) ([]uint, error)

	// FollowerCounts and FollowingCounts batch cardinalities for a set of
	// users so projection never walks relation rows per item.
	FollowerCounts(ctx context.Context, userIDs []uint) (map[uint]int64, error)
	FollowingCounts(ctx context.Context, userIDs []uint) (map[uint]int64, error)
}

type relationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return toggleEdge(ctx, r.db,
		"follower_id = ? AND followee_id = ?", []any{followerID, followeeID},
		&model.Follow{FollowerID: followerID, FolloweeID: followeeID})
}

func (r *relationshipRepository) ToggleMute(ctx context.Context, muterID, mutedID uint) (bool, error) {
	return toggleEdge(ctx, r.db,
		"muter_id = ? AND muted_id = ?", []any{muterID, mutedID},
		&model.Mute{MuterID: muterID, MutedID: mutedID})
}

func (r *relationshipRepository) ToggleBlock(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&model.Block{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Block{BlockerID: blockerID, BlockedID: blockedID}).Error; err != nil {
			return err
		}
		// a blocked user may not stay followed, in either direction
		return tx.Where(
			"(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)",
			blockerID, blockedID, blockedID, blockerID,
		).Delete(&model.Follow{}).Error
	})
	return added, err
}

func (r *relationshipRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return edgeExists[model.Follow](ctx, r.db, "follower_id = ? AND followee_id = ?", followerID, followeeID)
}

func (r *relationshipRepository) IsMuting(ctx context.Context, muterID, mutedID uint) (bool, error) {
	return edgeExists[model.Mute](ctx, r.db, "muter_id = ? AND muted_id = ?", muterID, mutedID)
}

func (r *relationshipRepository) IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	return edgeExists[model.Block](ctx, r.db, "blocker_id = ? AND blocked_id = ?", blockerID, blockedID)
}

func (r *relationshipRepository) FollowersCount(ctx context.Context, userID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *relationshipRepository) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *relationshipRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).Pluck("followee_id", &ids).Error
	return ids, err
}

func (r *relationshipRepository) MutingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Mute{}).
		Where("muter_id = ?", userID).Pluck("muted_id", &ids).Error
	return ids, err
}

func (r *relationshipRepository) BlockingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocker_id = ?", userID).Pluck("blocked_id", &ids).Error
	return ids, err
}

func (r *relationshipRepository) BlockedByIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("blocked_id = ?", userID).Pluck("blocker_id", &ids).Error
	return ids, err
}

func (r *relationshipRepository) FollowersPage(ctx context.Context, userID uint, offset, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *relationshipRepository) FollowingPage(ctx context.Context, userID uint, offset, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Pluck("followee_id", &ids).Error
	return ids, err
}

type idCount struct {
	ID  uint
	Cnt int64
}

func (r *relationshipRepository) FollowerCounts(ctx context.Context, userIDs []uint) (map[uint]int64, error) {
	return r.groupCounts(ctx, "followee_id", userIDs)
}

func (r *relationshipRepository) FollowingCounts(ctx context.Context, userIDs []uint) (map[uint]int64, error) {
	return r.groupCounts(ctx, "follower_id", userIDs)
}

func (r *relationshipRepository) groupCounts(ctx context.Context, col string, userIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Select(col+" AS id, COUNT(*) AS cnt").
		Where(col+" IN ?", userIDs).
		Group(col).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Cnt
	}
	return out, nil
}
