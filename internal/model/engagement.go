package model

import "time"

// React is one user's reaction to one content item. The composite unique
// index makes the toggle race-safe regardless of service interleaving.
type React struct {
	ID          uint        `gorm:"primaryKey"`
	ContentType ContentType `gorm:"size:8;index:idx_react_edge,unique;not null"`
	ContentID   uint        `gorm:"index:idx_react_edge,unique;not null"`
	UserID      uint        `gorm:"index:idx_react_edge,unique;index:idx_react_user;not null"`
	CreatedAt   time.Time
}

func (React) TableName() string { return "reacts" }

// Bookmark is owned conceptually by the user but queryable from either side.
type Bookmark struct {
	ID          uint        `gorm:"primaryKey"`
	ContentType ContentType `gorm:"size:8;index:idx_bookmark_edge,unique;not null"`
	ContentID   uint        `gorm:"index:idx_bookmark_edge,unique;not null"`
	UserID      uint        `gorm:"index:idx_bookmark_edge,unique;index:idx_bookmark_user;not null"`
	CreatedAt   time.Time
}

func (Bookmark) TableName() string { return "bookmarks" }

// Mention records an @handle reference extracted from content text at
// creation time.
type Mention struct {
	ID          uint        `gorm:"primaryKey"`
	ContentType ContentType `gorm:"size:8;index:idx_mention_content;not null"`
	ContentID   uint        `gorm:"index:idx_mention_content;not null"`
	MentionerID uint        `gorm:"not null"`
	MentionedID uint        `gorm:"index;not null"`
	Mentioned   User        `gorm:"foreignKey:MentionedID"`
	CreatedAt   time.Time
}

func (Mention) TableName() string { return "mentions" }
