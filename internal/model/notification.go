package model

import "time"

// NotificationType tags what happened; Meta carries type-specific JSON.
type NotificationType string

const (
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationMention NotificationType = "MENTION"
	NotificationReply   NotificationType = "REPLY"
	NotificationReact   NotificationType = "REACT"
	NotificationMessage NotificationType = "MESSAGE"
)

// Notification is an immutable record; seen rows past the retention window
// are removed by the sweeper.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"index:idx_notif_recipient;not null" json:"recipientId"`
	SenderID    uint             `gorm:"not null" json:"senderId"`
	Sender      User             `gorm:"foreignKey:SenderID" json:"sender"`
	Type        NotificationType `gorm:"size:16;not null" json:"type"`
	Meta        string           `gorm:"type:text" json:"meta,omitempty"`
	IsSeen      bool             `gorm:"not null;default:false;index" json:"isSeen"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }
