// Package schema owns migration for every persisted entity.
package schema

import (
	"fmt"

	"github.com/saulo-duarte/cyberaware-lambda/internal/certificate"
	"github.com/saulo-duarte/cyberaware-lambda/internal/module"
	"github.com/saulo-duarte/cyberaware-lambda/internal/otp"
	"github.com/saulo-duarte/cyberaware-lambda/internal/quiz"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"gorm.io/gorm"
)

func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&user.Profile{},
		&otp.OneTimeCode{},
		&module.Module{},
		&module.Progress{},
		&module.PracticeQuestion{},
		&quiz.Question{},
		&quiz.Session{},
		&quiz.Answer{},
		&certificate.Certificate{},
	}
}

// Migrate creates or updates the schema, including the partial unique
// index that allows a single valid certificate per user.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(certificate.ValidPerUserIndexSQL).Error; err != nil {
		return fmt.Errorf("create certificate index: %w", err)
	}
	return nil
}
