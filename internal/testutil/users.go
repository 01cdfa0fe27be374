package testutil

import (
	"context"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"gorm.io/gorm"
)

// CreateUser inserts a verified user with a profile.
func CreateUser(t *testing.T, db *gorm.DB, email string) *user.User {
	t.Helper()

	u := &user.User{
		Email:    email,
		Password: "hash",
		Role:     "user",
		Profile:  &user.Profile{FirstName: "Ana", LastName: "Lima", IsVerified: true},
	}
	if err := user.NewRepository(db).Create(context.Background(), nil, u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}
