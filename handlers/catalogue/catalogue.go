package catalogue

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/middleware"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// CatalogueHandler handles catalogue and consultation endpoints
type CatalogueHandler struct {
	catalogue *services.CatalogueService
	validator *validation.Validator
}

// NewCatalogueHandler creates a new catalogue handler
func NewCatalogueHandler(db *gorm.DB) *CatalogueHandler {
	return &CatalogueHandler{
		catalogue: services.NewCatalogueService(db),
		validator: validation.NewValidator(),
	}
}

// EntryRequest represents a create/update request for a catalogue entry
type EntryRequest struct {
	Body        string `json:"body" validate:"required"`
	Description string `json:"description" validate:"max=255"`
}

// ListEntries handles GET /api/v1/catalogue
func (h *CatalogueHandler) ListEntries(c *fiber.Ctx) error {
	entries, err := h.catalogue.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list catalogue entries")
	}
	return response.Success(c, entries)
}

// GetEntry handles GET /api/v1/catalogue/:id
func (h *CatalogueHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalogue entry ID")
	}

	entry, err := h.catalogue.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Catalogue entry not found")
		}
		return response.InternalServerError(c, "Failed to load catalogue entry")
	}
	return response.Success(c, entry)
}

// CreateEntry handles POST /api/v1/catalogue (admin only)
func (h *CatalogueHandler) CreateEntry(c *fiber.Ctx) error {
	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.catalogue.Create(c.Context(), req.Body, req.Description)
	if err != nil {
		return response.InternalServerError(c, "Failed to create catalogue entry")
	}
	return response.Created(c, entry)
}

// UpdateEntry handles PUT /api/v1/catalogue/:id (admin only)
func (h *CatalogueHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalogue entry ID")
	}

	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.catalogue.Update(c.Context(), id, req.Body, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Catalogue entry not found")
		}
		return response.InternalServerError(c, "Failed to update catalogue entry")
	}
	return response.Success(c, entry)
}

// DeleteEntry handles DELETE /api/v1/catalogue/:id (admin only)
func (h *CatalogueHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalogue entry ID")
	}

	if err := h.catalogue.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Catalogue entry not found")
		}
		return response.InternalServerError(c, "Failed to delete catalogue entry")
	}
	return response.SuccessWithMessage(c, "Catalogue entry deleted", nil)
}

// RecordConsultation handles POST /api/v1/catalogue/:id/consult
func (h *CatalogueHandler) RecordConsultation(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalogue entry ID")
	}

	consultation, err := h.catalogue.RecordConsultation(c.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Catalogue entry not found")
		}
		return response.InternalServerError(c, "Failed to record consultation")
	}
	return response.Created(c, consultation)
}

// ListConsultations handles GET /api/v1/catalogue/:id/consultations (admin only)
func (h *CatalogueHandler) ListConsultations(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalogue entry ID")
	}

	consultations, err := h.catalogue.ListConsultations(c.Context(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to list consultations")
	}
	return response.Success(c, consultations)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
