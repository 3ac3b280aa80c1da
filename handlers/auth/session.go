package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/middleware"
	"github.com/mbacke/orienta-api/utils/response"
)

// Logout revokes the current session token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	err := h.blacklistService.RevokeToken(c.Context(), claims.ID, claims.UserID, claims.ExpiresAt.Time, "logout")
	if err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// GetProfile returns the authenticated account with its student profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	// Reload with the student profile attached
	full, err := h.accounts.GetByID(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to load account")
	}

	return response.Success(c, toUserResponse(full))
}
