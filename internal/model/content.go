package model

import "time"

// Kind discriminates content items. Handled exhaustively at validation and
// projection; an unknown kind is a programming error.
type Kind string

const (
	KindOriginal Kind = "original"
	KindReply    Kind = "reply"
	KindRepost   Kind = "repost"
	KindQuote    Kind = "quote"
)

// FeedKinds are the kinds eligible for timeline pages. Replies only show up
// under their parent.
var FeedKinds = []Kind{KindOriginal, KindRepost, KindQuote}

// ContentType names which table a polymorphic edge points at.
type ContentType string

const (
	ContentTweet ContentType = "tweet"
	ContentReel  ContentType = "reel"
)

// Tweet is a text post. OriginalID carries the reply parent for replies and
// the reshared item for reposts/quotes; a repost has no text of its own.
type Tweet struct {
	ID         uint  `gorm:"primaryKey"`
	AuthorID   uint  `gorm:"index:idx_tweet_author;not null"`
	Author     User  `gorm:"foreignKey:AuthorID"`
	Kind       Kind  `gorm:"size:16;index;not null"`
	Text       string `gorm:"size:1024"`
	OriginalID *uint  `gorm:"index:idx_tweet_original"`
	Original   *Tweet `gorm:"foreignKey:OriginalID;constraint:OnDelete:CASCADE"`
	Media      []TweetMedia `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (Tweet) TableName() string { return "tweets" }

// TweetMedia is an attached image or video, stored by URL in the media store.
type TweetMedia struct {
	ID      uint   `gorm:"primaryKey"`
	TweetID uint   `gorm:"index;not null"`
	URL     string `gorm:"size:512;not null"`
	Type    string `gorm:"size:16;not null"` // image | video
}

func (TweetMedia) TableName() string { return "tweet_media"  }

// Reel is a short video post. Same kind/reference semantics as Tweet, plus
// topic categorization.
type Reel struct {
	ID         uint  `gorm:"primaryKey"`
	AuthorID   uint  `gorm:"index:idx_reel_author;not null"`
	Author     User  `gorm:"foreignKey:AuthorID"`
	Kind       Kind  `gorm:"size:16;index;not null"`
	Text       string `gorm:"size:1024"`
	OriginalID *uint  `gorm:"index:idx_reel_original"`
	Original   *Reel  `gorm:"foreignKey:OriginalID;constraint:OnDelete:CASCADE"`
	VideoURL   string `gorm:"size:512"`
	ThumbURL   string `gorm:"size:512"`
	Topics     []Topic `gorm:"many2many:reel_topics"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (Reel) TableName() string { return "reels" }
