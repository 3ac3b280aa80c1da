package model

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Status values for User.Status
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// User represents a registered account in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	Role         string         `gorm:"type:account_role;default:'student'" json:"role"`    // student, admin
	Status       string         `gorm:"type:account_status;default:'active'" json:"status"` // active, inactive, suspended
	TokenVersion int            `gorm:"default:0" json:"-"`                                 // Increment to invalidate all user tokens

	// Relationships
	StudentProfile    *StudentProfile         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_profile,omitempty"`
	Consultations     []CatalogueConsultation `gorm:"foreignKey:ViewerID;constraint:OnDelete:CASCADE" json:"-"`
	Receptions        []Reception             `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	SentNotifications []Notification          `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"-"`
	Questions         []Question              `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	SentAnswers       []Answer                `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"-"`
	HandledPayments   []Payment               `gorm:"foreignKey:HandledByID;constraint:OnDelete:SET NULL" json:"-"`
	TokenBlacklist    []JWTTokenBlacklist     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the account has the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// StudentProfile is the student-specific extension of a User.
// Exactly one per student account; the owning account must hold the student role.
type StudentProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Track     string         `gorm:"type:varchar(100);not null" json:"track"` // GL, SR, SE, MI, MC

	// Relationships
	User        User                    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TestRecords []OrientationTestRecord `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	// Payments are delete-protected: a profile that owns payments cannot be removed.
	Payments []Payment `gorm:"foreignKey:ProfileID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName specifies the table name for StudentProfile
func (StudentProfile) TableName() string {
	return "student_profiles"
}
