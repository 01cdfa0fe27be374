package otp

import (
	"context"
	"errors"

	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, code *OneTimeCode) error
	ListUnused(ctx context.Context, tx *gorm.DB, userID uint, purpose user.Purpose) ([]OneTimeCode, error)
	// MarkUsed reports whether this call flipped the flag. A code that was
	// already used is left untouched.
	MarkUsed(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, code *OneTimeCode) error {
	return database.Conn(r.db, tx).WithContext(ctx).Create(code).Error
}

// ListUnused returns the user's unused codes, most recent expiry first.
func (r *repository) ListUnused(ctx context.Context, tx *gorm.DB, userID uint, purpose user.Purpose) ([]OneTimeCode, error) {
	var codes []OneTimeCode
	err := database.Conn(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Order("expires_at DESC").Order("id DESC").
		Find(&codes).Error
	return codes, err
}

func (r *repository) MarkUsed(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	var changed bool
	err := database.Conn(r.db, tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var code OneTimeCode
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&code, id).Error
		if err != nil {
			return err
		}
		if code.Used {
			return nil
		}
		if err := tx.Model(&OneTimeCode{}).Where("id = ?", id).Update("used", true).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return changed, err
}
