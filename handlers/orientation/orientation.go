package orientation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/middleware"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// OrientationHandler handles the orientation test log of the
// authenticated student.
type OrientationHandler struct {
	orientation *services.OrientationService
	accounts    *services.AccountService
	validator   *validation.Validator
}

// NewOrientationHandler creates a new orientation handler
func NewOrientationHandler(db *gorm.DB) *OrientationHandler {
	return &OrientationHandler{
		orientation: services.NewOrientationService(db),
		accounts:    services.NewAccountService(db),
		validator:   validation.NewValidator(),
	}
}

// AppendRequest represents one orientation test question/answer pair
type AppendRequest struct {
	ProfileType string `json:"profile_type" validate:"required,max=100"`
	Question    string `json:"question" validate:"required"`
	Answer      string `json:"answer" validate:"required"`
}

// Append handles POST /api/v1/orientation-tests for the authenticated
// student's own profile.
func (h *OrientationHandler) Append(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req AppendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	profile, err := h.accounts.GetProfileByUserID(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student profile not found")
		}
		return response.InternalServerError(c, "Failed to load student profile")
	}

	record, err := h.orientation.AppendRecord(c.Context(), profile.ID, req.ProfileType, req.Question, req.Answer)
	if err != nil {
		return response.InternalServerError(c, "Failed to append test record")
	}
	return response.Created(c, record)
}

// List handles GET /api/v1/orientation-tests for the authenticated
// student's own profile.
func (h *OrientationHandler) List(c *fiber.Ctx) error {
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

	records, err := h.orientation.ListRecords(c.Context(), profile.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list test records")
	}
	return response.Success(c, records)
}
