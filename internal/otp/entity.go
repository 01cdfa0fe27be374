package otp

import (
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
)

// OneTimeCode stores an encrypted six-digit code. Only unused, unexpired
// codes are accepted.
type OneTimeCode struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     uint         `gorm:"not null;index:idx_codes_user_purpose" json:"user_id"`
	User       *user.User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Purpose    user.Purpose `gorm:"type:varchar(32);not null;index:idx_codes_user_purpose" json:"purpose"`
	CodeCipher string       `gorm:"type:text;not null" json:"-"`
	ExpiresAt  time.Time    `gorm:"not null" json:"expires_at"`
	Used       bool         `gorm:"not null;default:false" json:"used"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (OneTimeCode) TableName() string { return "one_time_codes" }

func (c *OneTimeCode) IsValid(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}
