package repository

import (
	"context"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetResetToken stores the pending password-reset token
func (r *GormUserRepository) SetResetToken(ctx context.Context, userID uint64, token string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{
		"reset_password_token": token,
	})
}

// ConsumeResetToken stores a new password hash and clears the reset token,
// provided token is still the one on record. A token that was already
// consumed or superseded yields gorm.ErrRecordNotFound.
func (r *GormUserRepository) ConsumeResetToken(ctx context.Context, userID uint64, token, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_password_token = ?", userID, token).
		Updates(map[string]interface{}{
			"password_hash":        passwordHash,
			"reset_password_token": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) updateColumns(ctx context.Context, userID uint64, columns map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
