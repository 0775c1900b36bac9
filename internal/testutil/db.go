// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"

	"gorm.io/gorm"

	"homehub/internal/database"
	"homehub/internal/pkg/logger"
)

// Migrator creates the tables a test needs.
type Migrator func(db *gorm.DB) error

// NewDB opens a private in-memory SQLite database and runs the migrators.
func NewDB(t *testing.T, migrators ...Migrator) *gorm.DB {
	t.Helper()
	logger.Silence()

	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	for _, migrate := range migrators {
		if err := migrate(db); err != nil {
			t.Fatalf("failed to migrate db: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
