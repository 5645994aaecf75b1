package model

import "time"

// Topic is a bilingual category for reels.
type Topic struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	NameAr        string `gorm:"size:64;not null" json:"nameAr"`
	NameEn        string `gorm:"size:64;not null" json:"nameEn"`
	DescriptionAr string `gorm:"size:512" json:"descriptionAr"`
	DescriptionEn string `gorm:"size:512" json:"descriptionEn"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Topic) TableName() string { return "topics" }

// Name renders the label for a normalized language tag.
func (t Topic) Name(lang string) string {
	if lang == "en" {
		return t.NameEn
	}
	return t.NameAr
}

// Description renders the description for a normalized language tag.
func (t Topic) Description(lang string) string {
	if lang == "en" {
		return t.DescriptionEn
	}
	return t.DescriptionAr
}
