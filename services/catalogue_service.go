package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// CatalogueService handles catalogue entries and their consultation log
type CatalogueService struct {
	db *gorm.DB
}

// NewCatalogueService creates a new catalogue service
func NewCatalogueService(db *gorm.DB) *CatalogueService {
	return &CatalogueService{db: db}
}

// Create adds a catalogue entry
func (s *CatalogueService) Create(ctx context.Context, body, description string) (*model.CatalogueEntry, error) {
	entry := &model.CatalogueEntry{
		Body:        body,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create catalogue entry: %w", err)
	}
	return entry, nil
}

// Get loads a single catalogue entry
func (s *CatalogueService) Get(ctx context.Context, id uint) (*model.CatalogueEntry, error) {
	var entry model.CatalogueEntry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load catalogue entry: %w", err)
	}
	return &entry, nil
}

// List returns all catalogue entries, newest first
func (s *CatalogueService) List(ctx context.Context) ([]model.CatalogueEntry, error) {
	var entries []model.CatalogueEntry
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalogue entries: %w", err)
	}
	return entries, nil
}

// Update modifies the body and description of an entry
func (s *CatalogueService) Update(ctx context.Context, id uint, body, description string) (*model.CatalogueEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Body = body
	entry.Description = description
	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update catalogue entry: %w", err)
	}
	return entry, nil
}

// Delete removes an entry and, through the cascade, its consultation log
func (s *CatalogueService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.CatalogueEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete catalogue entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordConsultation logs that an account viewed an entry, timestamped
// at call time. Every call creates a new row; repeat views are not
// deduplicated.
func (s *CatalogueService) RecordConsultation(ctx context.Context, viewerID, entryID uint) (*model.CatalogueConsultation, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.CatalogueEntry{}).Where("id = ?", entryID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check catalogue entry: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	consultation := &model.CatalogueConsultation{
		ViewerID: viewerID,
		EntryID:  entryID,
		ViewedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(consultation).Error; err != nil {
		return nil, fmt.Errorf("failed to record consultation: %w", err)
	}
	return consultation, nil
}

// ListConsultations returns the consultation log of an entry, newest first
func (s *CatalogueService) ListConsultations(ctx context.Context, entryID uint) ([]model.CatalogueConsultation, error) {
	var consultations []model.CatalogueConsultation
	err := s.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("viewed_at DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}
