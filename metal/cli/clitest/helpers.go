package clitest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/perspective/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestConnection opens a private in-memory database with the full schema.
func NewTestConnection(t *testing.T) *database.Connection {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	conn := database.NewConnectionFromGorm(db)
	t.Cleanup(func() { conn.Close() })

	return conn
}
