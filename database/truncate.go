package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/perspective/metal/env"
)

var ErrTruncateProduction = errors.New("refusing to truncate a production database")

type Truncate struct {
	database *Connection
	env      *env.Environment
}

func NewTruncate(db *Connection, env *env.Environment) *Truncate {
	return &Truncate{
		database: db,
		env:      env,
	}
}

// Execute empties every schema table, children first.
func (t Truncate) Execute() error {
	if t.env.App.IsProduction() {
		return ErrTruncateProduction
	}

	tables := GetSchemaTables()
	var errs []error

	db := t.database.Sql()

	for i := len(tables) - 1; i >= 0; i-- {
		table := tables[i]

		if !isValidTable(table) {
			errs = append(errs, fmt.Errorf("table '%s' does not exist", table))
			continue
		}

		if !db.Migrator().HasTable(table) {
			slog.Warn("[db:truncate] skipped missing table", "table", table)
			continue
		}

		exec := db.Exec(t.statementFor(table))
		if exec.Error != nil {
			if isUndefinedRelationError(exec.Error) {
				slog.Warn("[db:truncate] skipped undefined relation", "table", table, "error", exec.Error)
				continue
			}

			slog.Error("[db:truncate] failed to truncate table", "table", table, "error", exec.Error)
			errs = append(errs, fmt.Errorf("truncate table %s: %w", table, exec.Error))
			continue
		}

		slog.Info("[db:truncate] truncated table", "table", table)
	}

	if len(errs) > 0 {
		return fmt.Errorf("truncate completed with %d error(s): %w", len(errs), errors.Join(errs...))
	}

	return nil
}

// statementFor falls back to DELETE on sqlite, which has no TRUNCATE.
func (t Truncate) statementFor(table string) string {
	if t.database.driverName == "sqlite" {
		return fmt.Sprintf("DELETE FROM %s;", table)
	}

	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table)
}

func isUndefinedRelationError(err error) bool {
	return sqlState(err) == "42P01"
}

func sqlState(err error) string {
	if err == nil {
		return ""
	}

	var stateErr interface{ SQLState() string }
	if errors.As(err, &stateErr) {
		return stateErr.SQLState()
	}

	message := err.Error()
	upper := strings.ToUpper(message)
	marker := "(SQLSTATE "

	if idx := strings.LastIndex(upper, marker); idx != -1 {
		start := idx + len(marker)

		if end := strings.Index(upper[start:], ")"); end != -1 {
			return message[start : start+end]
		}
	}

	return ""
}
