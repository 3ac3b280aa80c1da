package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/model"
	"github.com/mbacke/orienta-api/utils/auth"
	"github.com/mbacke/orienta-api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// Required is middleware that requires a valid session token bound to an
// active account.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := m.resolve(c)
		if err != nil {
			return response.Unauthorized(c, err.Error())
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

// Optional is middleware that resolves the account when a valid token is
// present but lets anonymous requests through. Visitors may ask
// questions without an account.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}

		claims, user, err := m.resolve(c)
		if err != nil {
			return c.Next()
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

// RequireAdmin is middleware that requires an authenticated administrator
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := m.resolve(c)
		if err != nil {
			return response.Unauthorized(c, err.Error())
		}

		if !user.IsAdmin() {
			return response.Forbidden(c, "Administrator access required")
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*auth.Claims, *model.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, errors.New("missing authorization token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, errors.New("invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, errors.New("token has expired")
		}
		return nil, nil, errors.New("invalid token")
	}

	isRevoked, err := m.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return nil, nil, errors.New("failed to check token status")
	}
	if isRevoked {
		return nil, nil, errors.New("token has been revoked")
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("account not found")
		}
		return nil, nil, errors.New("failed to load account")
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, errors.New("token has been invalidated")
	}

	if !user.IsActive() {
		return nil, nil, errors.New("account is not active")
	}

	return claims, &user, nil
}

func storeUser(c *fiber.Ctx, claims *auth.Claims, user *model.User) {
	c.Locals("user_id", claims.UserID)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("user", user)
	c.Locals("token_jti", claims.ID)
}

// GetUser returns the authenticated account stored in the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok
}

// GetClaims returns the token claims stored in the request context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok
}
