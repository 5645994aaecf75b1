package model

import "time"

// Follow is a directed edge: follower follows followee.
// idx_follow_pair = (follower_id, followee_id) keeps the edge unique even
// under concurrent identical toggles.
type Follow struct {
	ID         uint `gorm:"primaryKey"`
	FollowerID uint `gorm:"index:idx_follow_follower;index:idx_follow_pair,unique;not null"`
	FolloweeID uint `gorm:"index:idx_follow_followee;index:idx_follow_pair,unique;not null"`
	CreatedAt  time.Time
}

func (Follow) TableName() string { return "follows" }

// Mute is a directed edge: muter no longer sees muted's content in
// conversation surfaces; the feed itself is unaffected.
type Mute struct {
	ID        uint `gorm:"primaryKey"`
	MuterID   uint `gorm:"index:idx_mute_pair,unique;not null"`
	MutedID   uint `gorm:"index:idx_mute_pair,unique;not null"`
	CreatedAt time.Time
}

func (Mute) TableName() string { return "mutes" }

// Block is a directed edge: blocker hides blocked's content everywhere.
type Block struct {
	ID        uint `gorm:"primaryKey"`
	BlockerID uint `gorm:"index:idx_block_blocker;index:idx_block_pair,unique;not null"`
	BlockedID uint `gorm:"index:idx_block_blocked;index:idx_block_pair,unique;not null"`
	CreatedAt time.Time
}

func (Block) TableName() string { return "blocks" }
