package faq

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// FAQHandler handles the public FAQ and its admin curation
type FAQHandler struct {
	faq       *services.FAQService
	validator *validation.Validator
}

// NewFAQHandler creates a new FAQ handler
func NewFAQHandler(db *gorm.DB) *FAQHandler {
	return &FAQHandler{
		faq:       services.NewFAQService(db),
		validator: validation.NewValidator(),
	}
}

// EntryRequest represents a FAQ create/update request
type EntryRequest struct {
	Question string `json:"question" validate:"required,max=255"`
	Answer   string `json:"answer" validate:"required"`
}

// List handles GET /api/v1/faq
func (h *FAQHandler) List(c *fiber.Ctx) error {
	entries, err := h.faq.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list FAQ entries")
	}
	return response.Success(c, entries)
}

// Create handles POST /api/v1/faq (admin only)
func (h *FAQHandler) Create(c *fiber.Ctx) error {
	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.faq.Create(c.Context(), req.Question, req.Answer)
	if err != nil {
		return response.InternalServerError(c, "Failed to create FAQ entry")
	}
	return response.Created(c, entry)
}

// Update handles PUT /api/v1/faq/:id (admin only)
func (h *FAQHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid FAQ entry ID")
	}

	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.faq.Update(c.Context(), uint(id), req.Question, req.Answer)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "FAQ entry not found")
		}
		return response.InternalServerError(c, "Failed to update FAQ entry")
	}
	return response.Success(c, entry)
}

// Delete handles DELETE /api/v1/faq/:id (admin only)
func (h *FAQHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid FAQ entry ID")
	}

	if err := h.faq.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "FAQ entry not found")
		}
		return response.InternalServerError(c, "Failed to delete FAQ entry")
	}
	return response.SuccessWithMessage(c, "FAQ entry deleted", nil)
}
