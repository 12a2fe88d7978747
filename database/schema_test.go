package database

import (
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm/schema"
)

func TestIsValidTable(t *testing.T) {
	for _, table := range GetSchemaTables() {
		if !isValidTable(table) {
			t.Fatalf("expected %s to be valid", table)
		}
	}

	invalid := []string{"", "Users", "ARTICLES", "table123", "user-name", "   ", strings.Repeat("x", 256)}

	for _, table := range invalid {
		if isValidTable(table) {
			t.Fatalf("expected %q to be invalid", table)
		}
	}
}

func TestSchemaModelsMatchTables(t *testing.T) {
	tables := GetSchemaTables()
	models := GetSchemaModels()

	if len(tables) != len(models) {
		t.Fatalf("expected %d models, got %d", len(tables), len(models))
	}

	namer := schema.NamingStrategy{}

	for i, model := range models {
		name := namer.TableName(reflect.Indirect(reflect.ValueOf(model)).Type().Name())

		if name != tables[i] {
			t.Fatalf("model %d: expected table %s, got %s", i, tables[i], name)
		}
	}
}
