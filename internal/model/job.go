package model

import "time"

// Job is a marketplace posting. Bookmark and application edges follow the
// same unique-pair pattern as content engagement.
type Job struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PosterID    uint   `gorm:"index;not null" json:"posterId"`
	Poster      User   `gorm:"foreignKey:PosterID" json:"poster"`
	Title       string `gorm:"size:128;not null" json:"title"`
	Description string `gorm:"size:2048;not null" json:"description"`
	Location    string `gorm:"size:128" json:"location"`
	Remote      bool   `gorm:"not null;default:false" json:"remote"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Job) TableName() string { return "jobs" }

type JobBookmark struct {
	ID        uint `gorm:"primaryKey"`
	JobID     uint `gorm:"index:idx_jobmark_pair,unique;not null"`
	UserID    uint `gorm:"index:idx_jobmark_pair,unique;not null"`
	CreatedAt time.Time
}

func (JobBookmark) TableName() string { return "job_bookmarks" }

type JobApplication struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	JobID     uint   `gorm:"index:idx_jobapp_pair,unique;not null" json:"jobId"`
	UserID    uint   `gorm:"index:idx_jobapp_pair,unique;not null" json:"userId"`
	Applicant User   `gorm:"foreignKey:UserID" json:"applicant"`
	CoverText string `gorm:"size:2048" json:"coverText"`
	CreatedAt time.Time `json:"createdAt"`
}

func (JobApplication) TableName() string { return "job_applications" }
