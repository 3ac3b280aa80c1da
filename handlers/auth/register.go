package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/model"
	"github.com/mbacke/orienta-api/services"
	authutil "github.com/mbacke/orienta-api/utils/auth"
	"github.com/mbacke/orienta-api/utils/middleware"
	"github.com/mbacke/orienta-api/utils/response"
	"github.com/mbacke/orienta-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	accounts             *services.AccountService
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		accounts:             services.NewAccountService(db),
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// RegisterRequest represents a student registration request
type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=150"`
	LastName        string `json:"last_name" validate:"required,min=2,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Track           string `json:"track" validate:"required,oneof=GL SR SE MI MC"`
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

// UserResponse represents account data in responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Track     string    `json:"track,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user *model.User) UserResponse {
	res := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
	if user.StudentProfile != nil {
		res.Track = user.StudentProfile.Track
	}
	return res
}

// Register handles student registration. The account and its student
// profile are created together; the new student is logged in right away.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.accounts.Register(c.Context(), services.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Track:     req.Track,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return response.Conflict(c, "An account with this email already exists")
		}
		return response.InternalServerError(c, "Failed to create account")
	}

	accessToken, _, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	res := RegisterResponse{
		User:        toUserResponse(user),
		AccessToken: accessToken,
		ExpiresIn:   int(h.jwtManager.Expiry().Seconds()),
	}

	return response.Created(c, res)
}
