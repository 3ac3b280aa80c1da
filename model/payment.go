package model

import (
	"time"
)

// Payment is an immutable payment record attached to a student profile.
// There is no update or delete path: payments form the financial audit
// trail and protect their profile from deletion.
type Payment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ProfileID      uint      `gorm:"not null;index" json:"profile_id"`
	Amount         float64   `gorm:"not null;type:decimal(12,2)" json:"amount"`
	Contact        string    `gorm:"type:varchar(50);not null" json:"contact"`
	CreditorNumber string    `gorm:"type:varchar(50);not null" json:"creditor_number"`
	DebtorNumber   string    `gorm:"type:varchar(50);not null" json:"debtor_number"`
	PaidAt         time.Time `gorm:"not null;index" json:"paid_at"`
	HandledByID    *uint     `gorm:"index" json:"handled_by_id,omitempty"` // Administrator who processed the payment

	// Relationships
	Profile   StudentProfile `gorm:"foreignKey:ProfileID;constraint:OnDelete:RESTRICT" json:"-"`
	HandledBy *User          `gorm:"foreignKey:HandledByID;constraint:OnDelete:SET NULL" json:"handled_by,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
