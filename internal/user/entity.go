package user

import (
	"strings"
	"time"
)

type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposeResetPassword Purpose = "reset_password"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:user" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (User) TableName() string { return "users" }

type Profile struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"-"`
	FirstName  string    `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(255);not null" json:"last_name"`
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`
	FirstLogin bool      `gorm:"not null;default:true" json:"first_login"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Profile) TableName() string { return "user_profiles" }

func (u *User) IsVerified() bool {
	return u.Profile != nil && u.Profile.IsVerified
}

func (u *User) FullName() string {
	if u.Profile == nil {
		return u.Email
	}
	return strings.TrimSpace(u.Profile.FirstName + " " + u.Profile.LastName)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
