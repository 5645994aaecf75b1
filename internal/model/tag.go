package model

import "time"

// Tag is a hashtag extracted from content text at creation time.
type Tag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Tag) TableName() string { return "tags" }

// TagLink associates a tag with one content item in either content table.
// Trending counts distinct links per tag across both.
type TagLink struct {
	ID          uint        `gorm:"primaryKey"`
	TagID       uint        `gorm:"index:idx_taglink,unique;not null"`
	ContentType ContentType `gorm:"size:8;index:idx_taglink,unique;not null"`
	ContentID   uint        `gorm:"index:idx_taglink,unique;not null"`
	CreatedAt   time.Time
}

func (TagLink) TableName() string { return "tag_links" }
