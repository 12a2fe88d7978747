package env

import "fmt"

type DBEnvironment struct {
	UserName     string `validate:"required,lowercase,min=5"`
	UserPassword string `validate:"required,min=5"`
	DatabaseName string `validate:"required,lowercase,min=5"`
	Port         int    `validate:"required,numeric,gt=0"`
	Host         string `validate:"required,lowercase,hostname|ip"`
	DriverName   string `validate:"required,oneof=postgres"`
	SSLMode      string `validate:"required,oneof=disable require verify-ca verify-full"`
	TimeZone     string `validate:"required"`
}

func (e DBEnvironment) GetDSN() string {
	return fmt.Sprintf(
		"host=%s user='%s' password='%s' dbname='%s' port=%d sslmode=%s TimeZone=%s",
		e.Host,
		e.UserName,
		e.UserPassword,
		e.DatabaseName,
		e.Port,
		e.SSLMode,
		e.TimeZone,
	)
}

// GetMigrationURL renders the connection as a postgres URL, the form golang-migrate expects.
func (e DBEnvironment) GetMigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		e.UserName,
		e.UserPassword,
		e.Host,
		e.Port,
		e.DatabaseName,
		e.SSLMode,
	)
}
