package model

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a message fanned out to a set of recipient accounts.
// The sender is optional (system notifications) and nulled when the
// sending account is deleted, preserving history.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	SenderID  *uint          `gorm:"index" json:"sender_id,omitempty"`
	Subject   string         `gorm:"type:varchar(150);not null" json:"subject"`
	Body      string         `gorm:"type:text" json:"body"`
	SentAt    time.Time      `gorm:"not null" json:"sent_at"`

	// Relationships
	Sender     *User       `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"sender,omitempty"`
	Receptions []Reception `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Reception tracks delivery and read state of one notification for one
// recipient. At most one reception per (notification, recipient) pair.
type Reception struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	NotificationID uint       `gorm:"not null;uniqueIndex:idx_reception_recipient" json:"notification_id"`
	RecipientID    uint       `gorm:"not null;index;uniqueIndex:idx_reception_recipient" json:"recipient_id"`
	ReceivedAt     time.Time  `gorm:"not null" json:"received_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`

	// Relationships
	Notification Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"notification,omitempty"`
	Recipient    User         `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Reception
func (Reception) TableName() string {
	return "receptions"
}

// IsRead reports whether the reception has been marked read
func (r *Reception) IsRead() bool {
	return r.ReadAt != nil
}

// ReceptionResponse is the API response format for a reception with its
// notification payload inlined.
type ReceptionResponse struct {
	ID         uint       `json:"id"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	SenderID   *uint      `json:"sender_id,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	Read       bool       `json:"read"`
}

// ToResponse converts a Reception (with Notification preloaded) to ReceptionResponse
func (r *Reception) ToResponse() ReceptionResponse {
	return ReceptionResponse{
		ID:         r.ID,
		Subject:    r.Notification.Subject,
		Body:       r.Notification.Body,
		SenderID:   r.Notification.SenderID,
		ReceivedAt: r.ReceivedAt,
		ReadAt:     r.ReadAt,
		Read:       r.IsRead(),
	}
}
