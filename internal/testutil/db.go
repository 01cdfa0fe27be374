// Package testutil builds isolated databases for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/saulo-duarte/cyberaware-lambda/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// NewDB returns a migrated in-memory SQLite database. It holds a single
// connection, so code running inside a transaction must use the tx handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := schema.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
