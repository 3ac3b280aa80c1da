package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// OrientationService handles the append-only orientation test log
type OrientationService struct {
	db *gorm.DB
}

// NewOrientationService creates a new orientation service
func NewOrientationService(db *gorm.DB) *OrientationService {
	return &OrientationService{db: db}
}

// AppendRecord adds one question/answer pair of an orientation test to a
// student's log. Records are never updated or deleted individually.
func (s *OrientationService) AppendRecord(ctx context.Context, profileID uint, profileType, question, answer string) (*model.OrientationTestRecord, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.StudentProfile{}).Where("id = ?", profileID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check student profile: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	record := &model.OrientationTestRecord{
		ProfileID:   profileID,
		ProfileType: profileType,
		Question:    question,
		Answer:      answer,
		TakenAt:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to append test record: %w", err)
	}
	return record, nil
}

// ListRecords returns a student's orientation test log, newest first
func (s *OrientationService) ListRecords(ctx context.Context, profileID uint) ([]model.OrientationTestRecord, error) {
	var records []model.OrientationTestRecord
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("taken_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list test records: %w", err)
	}
	return records, nil
}
