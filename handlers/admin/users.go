package admin

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/model"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// UserAdminHandler handles account administration endpoints
type UserAdminHandler struct {
	accounts  *services.AccountService
	payments  *services.PaymentService
	validator *validation.Validator
}

// NewUserAdminHandler creates a new account administration handler
func NewUserAdminHandler(db *gorm.DB) *UserAdminHandler {
	return &UserAdminHandler{
		accounts:  services.NewAccountService(db),
		payments:  services.NewPaymentService(db),
		validator: validation.NewValidator(),
	}
}

// SetStatusRequest represents an account status change
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

// List handles GET /api/v1/admin/users. The role query parameter
// filters to students or administrators.
func (h *UserAdminHandler) List(c *fiber.Ctx) error {
	role := c.Query("role")
	if role != "" && role != model.RoleStudent && role != model.RoleAdmin {
		return response.BadRequest(c, "Invalid role filter")
	}

	users, err := h.accounts.ListByRole(c.Context(), role)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}
	return response.Success(c, users)
}

// SetStatus handles PUT /api/v1/admin/users/:id/status
func (h *UserAdminHandler) SetStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.accounts.SetStatus(c.Context(), uint(id), req.Status); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to update account status")
	}
	return response.SuccessWithMessage(c, "Account status updated", nil)
}

// Delete handles DELETE /api/v1/admin/users/:id. Accounts whose profile
// holds payments are delete-protected.
func (h *UserAdminHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	if err := h.accounts.Delete(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, services.ErrProfileProtected):
			return response.Conflict(c, "Account has payment records and cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete account")
		}
	}
	return response.SuccessWithMessage(c, "Account deleted", nil)
}

// ListPayments handles GET /api/v1/admin/profiles/:id/payments
func (h *UserAdminHandler) ListPayments(c *fiber.Ctx) error {
	profileID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid profile ID")
	}

	payments, err := h.payments.List(c.Context(), uint(profileID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}
	return response.Success(c, payments)
}

// DeleteProfile handles DELETE /api/v1/admin/profiles/:id
func (h *UserAdminHandler) DeleteProfile(c *fiber.Ctx) error {
	profileID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid profile ID")
	}

	if err := h.accounts.DeleteProfile(c.Context(), uint(profileID)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Student profile not found")
		case errors.Is(err, services.ErrProfileProtected):
			return response.Conflict(c, "Profile has payment records and cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete student profile")
		}
	}
	return response.SuccessWithMessage(c, "Student profile deleted", nil)
}
