package notification

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

// NotificationHandler handles notification publishing and the
// per-recipient inbox.
type NotificationHandler struct {
	notifications *services.NotificationService
	validator     *validation.Validator
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		notifications: services.NewNotificationService(db),
		validator:     validation.NewValidator(),
	}
}

// PublishRequest represents a notification to fan out
type PublishRequest struct {
	Subject      string `json:"subject" validate:"required,max=150"`
	Body         string `json:"body"`
	RecipientIDs []uint `json:"recipient_ids" validate:"required,min=1"`
}

// Publish handles POST /api/v1/notifications (admin only). The acting
// administrator is recorded as the sender.
func (h *NotificationHandler) Publish(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	notification, err := h.notifications.Publish(c.Context(), services.PublishRequest{
		SenderID:     &user.ID,
		Subject:      req.Subject,
		Body:         req.Body,
		RecipientIDs: req.RecipientIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoRecipients):
			return response.BadRequest(c, "At least one recipient is required")
		case errors.Is(err, services.ErrNotFound):
			return response.BadRequest(c, "One or more recipients do not exist")
		default:
			return response.InternalServerError(c, "Failed to publish notification")
		}
	}
	return response.Created(c, fiber.Map{
		"id":         notification.ID,
		"subject":    notification.Subject,
		"sent_at":    notification.SentAt,
		"recipients": len(notification.Receptions),
	})
}

// List handles GET /api/v1/notifications. Returns the authenticated
// account's inbox, newest first.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	unreadOnly := c.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	receptions, total, err := h.notifications.ListReceptions(c.Context(), services.ListReceptionsOptions{
		RecipientID: user.ID,
		UnreadOnly:  unreadOnly,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	items := make([]interface{}, 0, len(receptions))
	for _, r := range receptions {
		items = append(items, r.ToResponse())
	}

	unreadCount, _ := h.notifications.UnreadCount(c.Context(), user.ID)

	return response.Success(c, fiber.Map{
		"notifications": items,
		"total":         total,
		"unread_count":  unreadCount,
		"limit":         limit,
		"offset":        offset,
	})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	count, err := h.notifications.UnreadCount(c.Context(), user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get unread count")
	}

	return response.Success(c, fiber.Map{
		"unread_count": count,
	})
}

// MarkRead handles POST /api/v1/notifications/:id/read. Marking twice
// is a conflict, not a silent no-op.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	receptionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	reception, err := h.notifications.MarkRead(c.Context(), uint(receptionID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Notification not found")
		case errors.Is(err, services.ErrAlreadyRead):
			return response.Conflict(c, "Notification already marked as read")
		default:
			return response.InternalServerError(c, "Failed to mark notification as read")
		}
	}

	return response.Success(c, reception.ToResponse())
}
