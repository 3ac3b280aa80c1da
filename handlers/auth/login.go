package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/services"
	"github.com/mbacke/orienta-api/utils/response"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

// Login handles account login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ip := c.IP()

	user, err := h.accounts.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if h.bruteForceProtection != nil {
				h.bruteForceProtection.RecordFailedAttempt(c, ip)
			}
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to authenticate")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	accessToken, _, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	res := LoginResponse{
		User:        toUserResponse(user),
		AccessToken: accessToken,
		ExpiresIn:   int(h.jwtManager.Expiry().Seconds()),
	}

	return response.Success(c, res)
}
