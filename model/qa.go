package model

import (
	"time"

	"gorm.io/gorm"
)

// ChatbotSystem identifies a deployed chatbot version that can receive
// questions and produce answers.
type ChatbotSystem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   string    `gorm:"type:varchar(50);not null" json:"version"`
}

// TableName specifies the table name for ChatbotSystem
func (ChatbotSystem) TableName() string {
	return "chatbot_systems"
}

// Question is a visitor or student question. The author is optional so
// anonymous visitors can ask; a deleted author leaves the question in place.
type Question struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Type      string         `gorm:"type:varchar(50)" json:"type"`
	AuthorID  *uint          `gorm:"index" json:"author_id,omitempty"`
	ChatbotID *uint          `gorm:"index" json:"chatbot_id,omitempty"`
	AskedAt   time.Time      `gorm:"not null" json:"asked_at"`

	// Relationships
	Author  *User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Chatbot *ChatbotSystem `gorm:"foreignKey:ChatbotID;constraint:OnDelete:SET NULL" json:"-"`
	Answers []Answer       `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

// TableName specifies the table name for Question
func (Question) TableName() string {
	return "questions"
}

// Answer is one reply to a question. A question may accumulate several
// answers; each must come from the chatbot, a human sender, or both.
type Answer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Type       string         `gorm:"type:varchar(50)" json:"type"`
	QuestionID uint           `gorm:"not null;index" json:"question_id"`
	ChatbotID  *uint          `gorm:"index" json:"chatbot_id,omitempty"`
	SenderID   *uint          `gorm:"index" json:"sender_id,omitempty"`
	SentAt     time.Time      `gorm:"not null" json:"sent_at"`

	// Relationships
	Question Question       `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Chatbot  *ChatbotSystem `gorm:"foreignKey:ChatbotID;constraint:OnDelete:SET NULL" json:"-"`
	Sender   *User          `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"sender,omitempty"`
}

// TableName specifies the table name for Answer
func (Answer) TableName() string {
	return "answers"
}
