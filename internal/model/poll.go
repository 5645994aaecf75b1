package model

import "time"

// Poll is owned 1:1 by a content item.
type Poll struct {
	ID          uint        `gorm:"primaryKey"`
	ContentType ContentType `gorm:"size:8;index:idx_poll_owner,unique;not null"`
	ContentID   uint        `gorm:"index:idx_poll_owner,unique;not null"`
	Question    string      `gorm:"size:256"`
	Options     []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

func (Poll) TableName() string { return "polls" }

// PollOption keeps its position so option indexes on the wire stay stable.
type PollOption struct {
	ID       uint   `gorm:"primaryKey"`
	PollID   uint   `gorm:"index:idx_option_pos,unique;not null"`
	Position int    `gorm:"index:idx_option_pos,unique;not null"`
	Label    string `gorm:"size:128;not null"`
}

func (PollOption) TableName() string { return "poll_options" }

// PollVote holds at most one row per (poll, user): voting a different option
// moves the vote rather than adding a second one.
type PollVote struct {
	ID        uint `gorm:"primaryKey"`
	PollID    uint `gorm:"index:idx_vote_pair,unique;not null"`
	OptionID  uint `gorm:"index;not null"`
	UserID    uint `gorm:"index:idx_vote_pair,unique;not null"`
	CreatedAt time.Time
}

func (PollVote) TableName() string { return "poll_votes" }
