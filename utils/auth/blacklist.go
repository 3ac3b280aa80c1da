package auth

import (
	"context"
	"time"

	"github.com/mbacke/orienta-api/model"
	"gorm.io/gorm"
)

// BlacklistService handles session token revocation
type BlacklistService struct {
	db *gorm.DB
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

// RevokeToken adds a token JTI to the blacklist
func (s *BlacklistService) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error {
	entry := model.JWTTokenBlacklist{
		TokenJTI:  jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// IsTokenRevoked checks if a token JTI is in the blacklist
func (s *BlacklistService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("token_jti = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RevokeAllUserTokens increments the account's token version so every
// outstanding token becomes invalid.
func (s *BlacklistService) RevokeAllUserTokens(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1)).
		Error
}

// CleanupExpiredTokens removes expired entries from the blacklist
func (s *BlacklistService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	return result.RowsAffected, result.Error
}
