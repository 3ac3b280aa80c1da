package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// QAService handles visitor questions and their answers
type QAService struct {
	db *gorm.DB
}

// NewQAService creates a new Q&A service
func NewQAService(db *gorm.DB) *QAService {
	return &QAService{db: db}
}

// AskQuestion records a question. The author may be nil for anonymous
// visitors; chatbotID links the question to the bot that should answer it.
func (s *QAService) AskQuestion(ctx context.Context, authorID *uint, body, qtype string, chatbotID *uint) (*model.Question, error) {
	question := &model.Question{
		Body:      body,
		Type:      qtype,
		AuthorID:  authorID,
		ChatbotID: chatbotID,
		AskedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(question).Error; err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// AnswerRequest carries the data for one answer to a question
type AnswerRequest struct {
	QuestionID uint
	Body       string
	Type       string
	ChatbotID  *uint
	SenderID   *uint
}

// AnswerQuestion appends an answer to a question. Every answer needs a
// provenance: at least one of chatbot and human sender must be set. A
// question may accumulate several answers; there is no resolved state.
func (s *QAService) AnswerQuestion(ctx context.Context, req AnswerRequest) (*model.Answer, error) {
	if req.ChatbotID == nil && req.SenderID == nil {
		return nil, ErrAnswerSourceMissing
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", req.QuestionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check question: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	answer := &model.Answer{
		Body:       req.Body,
		Type:       req.Type,
		QuestionID: req.QuestionID,
		ChatbotID:  req.ChatbotID,
		SenderID:   req.SenderID,
		SentAt:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return answer, nil
}

// GetQuestion loads a question with its answers, oldest answer first
func (s *QAService) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := s.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at ASC")
		}).
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	return &question, nil
}

// ListQuestions returns questions newest first, optionally only those
// asked by one account.
func (s *QAService) ListQuestions(ctx context.Context, authorID *uint) ([]model.Question, error) {
	var questions []model.Question
	query := s.db.WithContext(ctx).Model(&model.Question{})
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	if err := query.Order("asked_at DESC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}
