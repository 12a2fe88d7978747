package gorm

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	stdgorm "gorm.io/gorm"
)

const uniqueViolation = "23505"

func IsNotFound(seed error) bool {
	return seed != nil && errors.Is(seed, stdgorm.ErrRecordNotFound)
}

func IsFoundButHasErrors(seed error) bool {
	return seed != nil && !errors.Is(seed, stdgorm.ErrRecordNotFound)
}

func HasDbIssues(err error) bool {
	return IsNotFound(err) || IsFoundButHasErrors(err)
}

// IsUniqueViolation recognises duplicate-key failures from postgres (SQLSTATE 23505)
// through pgx or lib/pq, from gorm's translated error, and from sqlite used in tests.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, stdgorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}

	message := strings.ToUpper(err.Error())

	return strings.Contains(message, "UNIQUE CONSTRAINT FAILED") ||
		strings.Contains(message, "SQLSTATE "+uniqueViolation)
}
