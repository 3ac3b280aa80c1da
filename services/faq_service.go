package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// FAQService handles the curated FAQ shown to visitors
type FAQService struct {
	db *gorm.DB
}

// NewFAQService creates a new FAQ service
func NewFAQService(db *gorm.DB) *FAQService {
	return &FAQService{db: db}
}

// List returns all FAQ entries, newest first
func (s *FAQService) List(ctx context.Context) ([]model.FAQEntry, error) {
	var entries []model.FAQEntry
	if err := s.db.WithContext(ctx).Order("published_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list FAQ entries: %w", err)
	}
	return entries, nil
}

// Create adds a FAQ entry
func (s *FAQService) Create(ctx context.Context, question, answer string) (*model.FAQEntry, error) {
	entry := &model.FAQEntry{
		Question:    question,
		Answer:      answer,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create FAQ entry: %w", err)
	}
	return entry, nil
}

// Update modifies a FAQ entry
func (s *FAQService) Update(ctx context.Context, id uint, question, answer string) (*model.FAQEntry, error) {
	var entry model.FAQEntry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load FAQ entry: %w", err)
	}

	entry.Question = question
	entry.Answer = answer
	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update FAQ entry: %w", err)
	}
	return &entry, nil
}

// Delete removes a FAQ entry
func (s *FAQService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.FAQEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete FAQ entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
