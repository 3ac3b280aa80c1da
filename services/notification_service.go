package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// NotificationService handles notification fan-out and per-recipient
// read tracking
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// PublishRequest represents a notification to fan out to recipients
type PublishRequest struct {
	SenderID     *uint
	Subject      string
	Body         string
	RecipientIDs []uint
}

// ListReceptionsOptions represents options for listing a recipient's inbox
type ListReceptionsOptions struct {
	RecipientID uint
	UnreadOnly  bool
	Limit       int
	Offset      int
}

// Publish creates a notification and one reception per recipient in a
// single transaction: either the full fan-out is visible or none of it.
// Duplicate IDs in the recipient set are collapsed so the one-reception-
// per-recipient invariant holds.
func (s *NotificationService) Publish(ctx context.Context, req PublishRequest) (*model.Notification, error) {
	recipientIDs := dedupeIDs(req.RecipientIDs)
	if len(recipientIDs) == 0 {
		return nil, ErrNoRecipients
	}

	now := time.Now().UTC()
	notification := &model.Notification{
		SenderID: req.SenderID,
		Subject:  req.Subject,
		Body:     req.Body,
		SentAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("id IN ?", recipientIDs).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check recipients: %w", err)
		}
		if count != int64(len(recipientIDs)) {
			return ErrNotFound
		}

		if err := tx.Create(notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}

		receptions := make([]model.Reception, 0, len(recipientIDs))
		for _, id := range recipientIDs {
			receptions = append(receptions, model.Reception{
				NotificationID: notification.ID,
				RecipientID:    id,
				ReceivedAt:     now,
			})
		}
		if err := tx.Create(&receptions).Error; err != nil {
			return fmt.Errorf("failed to create receptions: %w", err)
		}
		notification.Receptions = receptions
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Published notification %d to %d recipients", notification.ID, len(recipientIDs))
	return notification, nil
}

// ListReceptions returns a recipient's inbox, newest first, with the
// notification payload preloaded.
func (s *NotificationService) ListReceptions(ctx context.Context, opts ListReceptionsOptions) ([]model.Reception, int64, error) {
	var receptions []model.Reception
	var total int64

	query := s.db.WithContext(ctx).Model(&model.Reception{}).
		Where("recipient_id = ?", opts.RecipientID)

	if opts.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count receptions: %w", err)
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	} else {
		query = query.Limit(50)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	err := query.Preload("Notification").Order("received_at DESC").Find(&receptions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch receptions: %w", err)
	}
	return receptions, total, nil
}

// UnreadCount returns the number of unread receptions for a recipient
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Reception{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread receptions: %w", err)
	}
	return count, nil
}

// MarkRead sets the read timestamp of one reception. Marking an already
// read reception fails with ErrAlreadyRead rather than silently
// re-stamping it. The recipient scoping keeps accounts from touching
// each other's receptions.
func (s *NotificationService) MarkRead(ctx context.Context, receptionID, recipientID uint) (*model.Reception, error) {
	var reception model.Reception

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Notification").
			Where("id = ? AND recipient_id = ?", receptionID, recipientID).
			First(&reception).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load reception: %w", err)
		}

		if reception.ReadAt != nil {
			return ErrAlreadyRead
		}

		now := time.Now().UTC()
		if err := tx.Model(&reception).Update("read_at", now).Error; err != nil {
			return fmt.Errorf("failed to mark reception read: %w", err)
		}
		reception.ReadAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reception, nil
}

// dedupeIDs collapses duplicate IDs preserving first-seen order
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
