package database

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/perspective/metal/env"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestTruncateExecuteSkipsMissingTables(t *testing.T) {
	conn, mock, sqlDB := newTruncateMockConnection(t)
	t.Cleanup(func() { _ = sqlDB.Close() })

	existing := allTables(false)
	expectTruncateCalls(t, mock, existing, nil)

	truncate := NewTruncate(conn, &env.Environment{App: env.AppEnvironment{Type: "local"}})
	if err := truncate.Execute(); err != nil {
		t.Fatalf("Execute unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTruncateExecuteSkipsUndefinedRelationErrors(t *testing.T) {
	conn, mock, sqlDB := newTruncateMockConnection(t)
	t.Cleanup(func() { _ = sqlDB.Close() })

	existing := allTables(false)
	existing["comments"] = true
	execErrors := map[string]error{
		"comments": errors.New("ERROR: relation \"comments\" does not exist (SQLSTATE 42P01)"),
	}

	expectTruncateCalls(t, mock, existing, execErrors)

	truncate := NewTruncate(conn, &env.Environment{App: env.AppEnvironment{Type: "local"}})
	if err := truncate.Execute(); err != nil {
		t.Fatalf("Execute unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTruncateExecuteAggregatesErrors(t *testing.T) {
	conn, mock, sqlDB := newTruncateMockConnection(t)
	t.Cleanup(func() { _ = sqlDB.Close() })

	existing := allTables(false)
	existing["articles"] = true
	execErrors := map[string]error{
		"articles": errors.New("truncate boom"),
	}

	expectTruncateCalls(t, mock, existing, execErrors)

	truncate := NewTruncate(conn, &env.Environment{App: env.AppEnvironment{Type: "local"}})
	err := truncate.Execute()
	if err == nil || !regexp.MustCompile(`truncate table articles`).MatchString(err.Error()) {
		t.Fatalf("expected error about articles table, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTruncateExecuteRefusesProduction(t *testing.T) {
	conn, mock, sqlDB := newTruncateMockConnection(t)
	t.Cleanup(func() { _ = sqlDB.Close() })

	truncate := NewTruncate(conn, &env.Environment{App: env.AppEnvironment{Type: "production"}})

	if err := truncate.Execute(); !errors.Is(err, ErrTruncateProduction) {
		t.Fatalf("expected ErrTruncateProduction, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected no queries: %v", err)
	}
}

func TestTruncateExecuteEmptiesSqliteTables(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(GetSchemaModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	conn := NewConnectionFromGorm(gdb)
	t.Cleanup(func() { conn.Close() })

	if err := gdb.Create(&NewsletterSubscriber{Email: "reader@example.com", IsActive: true}).Error; err != nil {
		t.Fatalf("seed subscriber: %v", err)
	}

	readTime := DefaultReadTime

	if err := gdb.Create(&Article{Title: "Draft", Category: DefaultCategory, Author: DefaultAuthor, ReadTime: &readTime}).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}

	if err := NewTruncate(conn, &env.Environment{App: env.AppEnvironment{Type: "local"}}).Execute(); err != nil {
		t.Fatalf("Execute unexpected error: %v", err)
	}

	for _, model := range GetSchemaModels() {
		var count int64

		if err := gdb.Model(model).Count(&count).Error; err != nil || count != 0 {
			t.Fatalf("expected %T to be empty, got %d (%v)", model, count, err)
		}
	}
}

func newTruncateMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	conn := NewConnectionFromGorm(gdb)
	return conn, mock, sqlDB
}

func allTables(value bool) map[string]bool {
	tables := GetSchemaTables()
	result := make(map[string]bool, len(tables))
	for _, table := range tables {
		result[table] = value
	}
	return result
}

func expectTruncateCalls(t *testing.T, mock sqlmock.Sqlmock, existing map[string]bool, execErrors map[string]error) {
	t.Helper()

	query := regexp.QuoteMeta("SELECT count(*) FROM information_schema.tables WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1 AND table_type = $2")
	tables := GetSchemaTables()

	for i := len(tables) - 1; i >= 0; i-- {
		table := tables[i]
		exists := true
		if existing != nil {
			exists = existing[table]
		}

		count := int64(0)
		if exists {
			count = 1
		}

		mock.ExpectQuery(query).
			WithArgs(table, "BASE TABLE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))

		if !exists {
			continue
		}

		stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table)
		expectation := mock.ExpectExec(regexp.QuoteMeta(stmt))
		if err, ok := execErrors[table]; ok {
			expectation.WillReturnError(err)
		} else {
			expectation.WillReturnResult(sqlmock.NewResult(0, 0))
		}
	}
}
