package model

import (
	"time"

	"gorm.io/gorm"
)

// FAQEntry is a curated question/answer pair shown to visitors.
type FAQEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Question    string         `gorm:"type:varchar(255);not null" json:"question"`
	Answer      string         `gorm:"type:text;not null" json:"answer"`
	PublishedAt time.Time      `gorm:"not null" json:"published_at"`
}

// TableName specifies the table name for FAQEntry
func (FAQEntry) TableName() string {
	return "faq_entries"
}
