package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mbacke/orienta-api/model"
	"github.com/mbacke/orienta-api/utils/auth"
	"gorm.io/gorm"
)

// AccountService handles accounts and their student profiles
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates a new account service
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// RegisterRequest carries the data needed to create an account with its
// student profile.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Track     string
}

// Register creates a student account and its profile in one transaction.
// Either both records exist afterwards or neither does. Returns
// ErrDuplicateEmail when the email is already taken, including the case
// where a concurrent registration wins the race on the unique index.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleStudent,
		Status:       model.StatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		profile := &model.StudentProfile{
			UserID: user.ID,
			Track:  req.Track,
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create student profile: %w", err)
		}
		user.StudentProfile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Registered student account %d (%s)", user.ID, user.Email)
	return user, nil
}

// Authenticate verifies credentials and returns the account. Unknown
// email, wrong password and non-active accounts all yield
// ErrInvalidCredentials so callers cannot probe which one failed.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetByID loads an account by primary key
func (s *AccountService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("StudentProfile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &user, nil
}

// ListByRole returns accounts filtered by role. Role-restricted views
// ("only students", "only administrators") are a query predicate, not a
// separate type.
func (s *AccountService) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	query := s.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return users, nil
}

// SetStatus updates the lifecycle status of an account
func (s *AccountService) SetStatus(ctx context.Context, id uint, status string) error {
	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateStudentProfile attaches a profile to an existing account.
// Registration normally does this atomically; this path exists for
// accounts created without one. Fails with ErrRoleMismatch for
// non-student accounts and ErrDuplicateProfile when one already exists.
func (s *AccountService) CreateStudentProfile(ctx context.Context, userID uint, track string) (*model.StudentProfile, error) {
	var profile *model.StudentProfile

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if user.Role != model.RoleStudent {
			return ErrRoleMismatch
		}

		var count int64
		if err := tx.Model(&model.StudentProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing profile: %w", err)
		}
		if count > 0 {
			return ErrDuplicateProfile
		}

		profile = &model.StudentProfile{UserID: userID, Track: track}
		if err := tx.Create(profile).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProfile
			}
			return fmt.Errorf("failed to create student profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByUserID loads the student profile owned by an account
func (s *AccountService) GetProfileByUserID(ctx context.Context, userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	return &profile, nil
}

// DeleteProfile removes a student profile unless payments reference it.
// The payment check and the delete run in the same transaction so a
// concurrent payment insertion cannot slip past the protection; the
// RESTRICT constraint on payments.profile_id backs it up at the database.
func (s *AccountService) DeleteProfile(ctx context.Context, profileID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile model.StudentProfile
		if err := tx.First(&profile, profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load student profile: %w", err)
		}

		var payments int64
		if err := tx.Model(&model.Payment{}).Where("profile_id = ?", profileID).Count(&payments).Error; err != nil {
			return fmt.Errorf("failed to count payments: %w", err)
		}
		if payments > 0 {
			return ErrProfileProtected
		}

		// Hard delete so the database-level cascade on test records fires.
		if err := tx.Unscoped().Delete(&profile).Error; err != nil {
			return fmt.Errorf("failed to delete student profile: %w", err)
		}
		return nil
	})
}

// Delete removes an account. Consultations, receptions and the student
// profile go with it; notifications, questions and answers the account
// sent keep their content with the sender nulled. Accounts whose profile
// holds payments are delete-protected like the profile itself.
func (s *AccountService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Preload("StudentProfile").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if user.StudentProfile != nil {
			var payments int64
			if err := tx.Model(&model.Payment{}).Where("profile_id = ?", user.StudentProfile.ID).Count(&payments).Error; err != nil {
				return fmt.Errorf("failed to count payments: %w", err)
			}
			if payments > 0 {
				return ErrProfileProtected
			}
		}

		// Hard delete so ON DELETE CASCADE / SET NULL constraints apply.
		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
}
