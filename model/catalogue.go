package model

import (
	"time"

	"gorm.io/gorm"
)

// CatalogueEntry is a piece of consultable content (program sheets,
// orientation guides, school information pages).
type CatalogueEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	Description string         `gorm:"type:varchar(255)" json:"description"`

	// Relationships
	Consultations []CatalogueConsultation `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CatalogueEntry
func (CatalogueEntry) TableName() string {
	return "catalogue_entries"
}

// CatalogueConsultation records who viewed which catalogue entry and when.
// Every view creates a new row; the composite key includes the timestamp,
// so repeated views by the same account are all kept.
type CatalogueConsultation struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ViewerID uint      `gorm:"not null;index;uniqueIndex:idx_consultation_view" json:"viewer_id"`
	EntryID  uint      `gorm:"not null;index;uniqueIndex:idx_consultation_view" json:"entry_id"`
	ViewedAt time.Time `gorm:"not null;uniqueIndex:idx_consultation_view" json:"viewed_at"`

	// Relationships
	Viewer User           `gorm:"foreignKey:ViewerID;constraint:OnDelete:CASCADE" json:"-"`
	Entry  CatalogueEntry `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CatalogueConsultation
func (CatalogueConsultation) TableName() string {
	return "catalogue_consultations"
}
