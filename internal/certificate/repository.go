package certificate

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CertificateRepository interface {
	Create(ctx context.Context, c *Certificate) error
	GetValidByUser(ctx context.Context, userID uint) (*Certificate, error)
	GetLatestByUser(ctx context.Context, userID uint) (*Certificate, error)
	GetByCertificateID(ctx context.Context, certificateID string) (*Certificate, error)
	Invalidate(ctx context.Context, certificateID string, at time.Time) (bool, error)
	CountValidByUser(ctx context.Context, userID uint) (int64, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(ctx context.Context, c *Certificate) error {
	return r.db.WithContext(ctx).Omit("User").Create(c).Error
}

func (r *certificateRepository) GetValidByUser(ctx context.Context, userID uint) (*Certificate, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ? AND valid = ?", userID, true))
}

func (r *certificateRepository) GetLatestByUser(ctx context.Context, userID uint) (*Certificate, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC"))
}

func (r *certificateRepository) GetByCertificateID(ctx context.Context, certificateID string) (*Certificate, error) {
	return r.first(r.db.WithContext(ctx).Where("certificate_id = ?", certificateID))
}

func (r *certificateRepository) Invalidate(ctx context.Context, certificateID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Certificate{}).
		Where("certificate_id = ? AND valid = ?", certificateID, true).
		Updates(map[string]interface{}{"valid": false, "invalidated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *certificateRepository) CountValidByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Certificate{}).Where("user_id = ? AND valid = ?", userID, true).Count(&n).Error
	return n, err
}

func (r *certificateRepository) first(q *gorm.DB) (*Certificate, error) {
	var c Certificate
	if err := q.Preload("User.Profile").First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
