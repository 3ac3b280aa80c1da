package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/middleware"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// PaymentHandler handles the payment ledger endpoints
type PaymentHandler struct {
	payments  *services.PaymentService
	accounts  *services.AccountService
	validator *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{
		payments:  services.NewPaymentService(db),
		accounts:  services.NewAccountService(db),
		validator: validation.NewValidator(),
	}
}

// RecordRequest represents a payment to record
type RecordRequest struct {
	ProfileID      uint    `json:"profile_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Contact        string  `json:"contact" validate:"required,max=50"`
	CreditorNumber string  `json:"creditor_number" validate:"required,max=50"`
	DebtorNumber   string  `json:"debtor_number" validate:"required,max=50"`
}

// Record handles POST /api/v1/payments (admin only). The acting
// administrator is recorded as the handler of the payment.
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	payment, err := h.payments.Record(c.Context(), services.RecordPaymentRequest{
		ProfileID:      req.ProfileID,
		Amount:         req.Amount,
		Contact:        req.Contact,
		CreditorNumber: req.CreditorNumber,
		DebtorNumber:   req.DebtorNumber,
		HandledByID:    &user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Payment amount must be positive")
		case errors.Is(err, services.ErrRoleMismatch):
			return response.Forbidden(c, "Payments can only be handled by administrators")
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Student profile not found")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}
	return response.Created(c, payment)
}

// ListOwn handles GET /api/v1/payments for the authenticated student
func (h *PaymentHandler) ListOwn(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	profile, err := h.accounts.GetProfileByUserID(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student profile not found")
		}
		return response.InternalServerError(c, "Failed to load student profile")
	}

	payments, err := h.payments.List(c.Context(), profile.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}
	return response.Success(c, payments)
}
