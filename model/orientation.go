package model

import (
	"time"

	"gorm.io/gorm"
)

// OrientationTestRecord is one question/answer pair of an orientation
// test taken by a student, with the profile type derived for it.
// Records are append-only.
type OrientationTestRecord struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ProfileID   uint           `gorm:"not null;index" json:"profile_id"`
	ProfileType string         `gorm:"type:varchar(100);not null" json:"profile_type"`
	Question    string         `gorm:"type:text;not null" json:"question"`
	Answer      string         `gorm:"type:text;not null" json:"answer"`
	TakenAt     time.Time      `gorm:"not null" json:"taken_at"`

	// Relationships
	Profile StudentProfile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for OrientationTestRecord
func (OrientationTestRecord) TableName() string {
	return "orientation_test_records"
}
