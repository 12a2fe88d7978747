package clitest

import (
	"testing"

	"github.com/perspective/database"
)

func TestNewTestConnectionMigratesTheSchema(t *testing.T) {
	conn := NewTestConnection(t)

	for _, model := range database.GetSchemaModels() {
		if !conn.Sql().Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}
