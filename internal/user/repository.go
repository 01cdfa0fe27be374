package user

import (
	"context"
	"errors"

	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, tx *gorm.DB, id uint, hash string) error
	UpdateProfile(ctx context.Context, tx *gorm.DB, userID uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user together with its profile.
func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, u *User) error {
	return database.Conn(r.db, tx).WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	var u User
	err := database.Conn(r.db, tx).WithContext(ctx).
		Preload("Profile").
		Where("email = ?", NormalizeEmail(email)).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdatePassword(ctx context.Context, tx *gorm.DB, id uint, hash string) error {
	return database.Conn(r.db, tx).WithContext(ctx).
		Model(&User{}).Where("id = ?", id).
		Update("password", hash).Error
}

func (r *userRepository) UpdateProfile(ctx context.Context, tx *gorm.DB, userID uint, fields map[string]interface{}) error {
	return database.Conn(r.db, tx).WithContext(ctx).
		Model(&Profile{}).Where("user_id = ?", userID).
		Updates(fields).Error
}

// Delete removes the user. Dependent rows go through ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&User{}, id).Error
}
