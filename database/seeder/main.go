package main

import (
	"context"
	"sync"
	"time"

	"github.com/perspective/database/seeder/seeds"
	"github.com/perspective/metal/env"
	"github.com/perspective/metal/kernel"
	"github.com/perspective/pkg/cli"
	"github.com/perspective/pkg/portal"
)

var environment *env.Environment

func init() {
	secrets, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		panic(err)
	}

	environment = secrets
}

func main() {
	cli.ClearScreen()

	dbConnection, err := kernel.MakeDbConnection(environment)
	if err != nil {
		panic(err)
	}

	logs, err := kernel.MakeLogs(environment)
	if err != nil {
		panic(err)
	}

	defer logs.Close()
	defer dbConnection.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seeder := seeds.MakeSeeder(dbConnection, environment)

	if err := seeder.TruncateDB(); err != nil {
		panic(err)
	}

	cli.Successln("db Truncated successfully ...")

	// Users and articles first: comments depend on both.
	_, reader, err := seeder.SeedUsers(ctx)
	if err != nil {
		panic(err)
	}

	articles, err := seeder.SeedArticles(ctx)
	if err != nil {
		panic(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		cli.Blueln("Seeding comments ...")

		if _, err := seeder.SeedComments(ctx, reader, articles...); err != nil {
			cli.Errorln(err.Error())
		}
	}()

	go func() {
		defer wg.Done()

		cli.Cyanln("Seeding subscribers ...")

		if err := seeder.SeedSubscribers(ctx); err != nil {
			cli.Errorln(err.Error())
		}
	}()

	wg.Wait()

	cli.Magentaln("db seeded as expected ....")
}
