package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/changefeed"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Connection struct {
	driverName string
	driver     *gorm.DB
	env        *env.Environment
}

func MakeConnection(env *env.Environment) (*Connection, error) {
	dbEnv := env.DB

	driver, err := gorm.Open(postgres.Open(dbEnv.GetDSN()), &gorm.Config{
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	return &Connection{
		driver:     driver,
		driverName: dbEnv.DriverName,
		env:        env,
	}, nil
}

func (c *Connection) Close() bool {
	sqlDB, err := c.driver.DB()

	if err != nil {
		slog.Error("There was an error closing the db: " + err.Error())
		return false
	}

	if err = sqlDB.Close(); err != nil {
		slog.Error("There was an error closing the db: " + err.Error())
		return false
	}

	return true
}

func (c *Connection) Ping() error {
	sqlDB, err := c.driver.DB()

	if err != nil {
		return fmt.Errorf("error retrieving the db driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err = sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("error pinging the db driver: %w", err)
	}

	slog.Debug("Database driver is healthy", "stats", sqlDB.Stats())

	return nil
}

func (c *Connection) Sql() *gorm.DB {
	return c.driver
}

// Transaction runs fn inside a database transaction. Changes written through tx reach the
// change feed only after the commit; a rollback discards them.
func (c *Connection) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	pending := &pendingChanges{}

	if err := c.driver.WithContext(withPendingChanges(ctx, pending)).Transaction(fn); err != nil {
		return err
	}

	pending.flush()

	return nil
}

// Watch publishes every write on the watched tables to the given change feed.
func (c *Connection) Watch(publisher changefeed.Publisher) error {
	return RegisterChangeCallbacks(c.driver, publisher)
}
