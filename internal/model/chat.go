package model

import "time"

// Conversation is an unordered pair of exactly two users. The pair is
// normalized (UserAID < UserBID) so the unique index catches both orderings.
type Conversation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserAID   uint `gorm:"index:idx_conv_pair,unique;not null" json:"userAId"`
	UserBID   uint `gorm:"index:idx_conv_pair,unique;not null" json:"userBId"`
	UserA     User `gorm:"foreignKey:UserAID" json:"-"`
	UserB     User `gorm:"foreignKey:UserBID" json:"-"`
	AViewing  bool `gorm:"not null;default:false" json:"-"`
	BViewing  bool `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

// NormalizePair orders a user pair for conversation lookup.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// Peer returns the other participant's id.
func (c Conversation) Peer(userID uint) uint {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// ViewingBy reports whether the given participant currently has the
// conversation open.
func (c Conversation) ViewingBy(userID uint) bool {
	if c.UserAID == userID {
		return c.AViewing
	}
	return c.BViewing
}

// Message belongs to exactly one conversation.
type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"index:idx_msg_conv;not null" json:"conversationId"`
	SenderID       uint   `gorm:"not null" json:"senderId"`
	ReceiverID     uint   `gorm:"index;not null" json:"receiverId"`
	Text           string `gorm:"size:2048;not null" json:"text"`
	IsSeen         bool   `gorm:"not null;default:false" json:"isSeen"`
	CreatedAt      time.Time `gorm:"index:idx_msg_conv" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }
