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

// PaymentService handles the append-only payment ledger
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// RecordPaymentRequest represents one payment to append to the ledger
type RecordPaymentRequest struct {
	ProfileID      uint
	Amount         float64
	Contact        string
	CreditorNumber string
	DebtorNumber   string
	HandledByID    *uint
}

// Record appends a payment to a student's ledger. The amount must be
// positive and the handling account, when given, must be an
// administrator; both checks run inside the transaction so no payment
// row exists when either fails.
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*model.Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payment := &model.Payment{
		ProfileID:      req.ProfileID,
		Amount:         req.Amount,
		Contact:        req.Contact,
		CreditorNumber: req.CreditorNumber,
		DebtorNumber:   req.DebtorNumber,
		PaidAt:         time.Now().UTC(),
		HandledByID:    req.HandledByID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile model.StudentProfile
		if err := tx.First(&profile, req.ProfileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load student profile: %w", err)
		}

		if req.HandledByID != nil {
			var handler model.User
			if err := tx.First(&handler, *req.HandledByID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("failed to load handling account: %w", err)
			}
			if !handler.IsAdmin() {
				return ErrRoleMismatch
			}
		}

		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Recorded payment %d of %.2f for profile %d", payment.ID, payment.Amount, payment.ProfileID)
	return payment, nil
}

// List returns a profile's payments, newest first. Payments are
// immutable once recorded; there is no update or delete path.
func (s *PaymentService) List(ctx context.Context, profileID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
