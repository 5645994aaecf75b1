package model

import "time"

// User is an account holder. Relationship and engagement sets live in their
// own edge tables; nothing here is denormalized.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Handle       string `gorm:"size:32;uniqueIndex;not null" json:"handle"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Title        string `gorm:"size:64" json:"title"`
	Bio          string `gorm:"size:512" json:"bio"`
	AvatarURL    string `gorm:"size:512" json:"avatarUrl"`
	BannerURL    string `gorm:"size:512" json:"bannerUrl"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	// premium | business | none
	SubscriptionTier string `gorm:"size:16;not null;default:none" json:"subscriptionTier"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Employee is a staff account for moderation and subscription review.
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:moderator" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Employee) TableName() string { return "employees" }
