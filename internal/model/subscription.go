package model

import "time"

const (
	SubscriptionPending  = "pending"
	SubscriptionApproved = "approved"
	SubscriptionRejected = "rejected"
)

// SubscriptionRequest is a paid-tier request waiting for employee review.
// Approval copies the tier onto the user.
type SubscriptionRequest struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"index;not null" json:"userId"`
	User       User   `gorm:"foreignKey:UserID" json:"user"`
	Tier       string `gorm:"size:16;not null" json:"tier"` // premium | business
	Status     string `gorm:"size:16;not null;default:pending;index" json:"status"`
	ReviewedBy *uint  `json:"reviewedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (SubscriptionRequest) TableName() string { return "subscription_requests" }
