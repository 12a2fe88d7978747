package main

import (
	"context"
	"fmt"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/metal/cli/accounts"
	"github.com/perspective/metal/cli/articles"
	"github.com/perspective/metal/cli/panel"
	"github.com/perspective/metal/cli/subscribers"
	"github.com/perspective/metal/env"
	"github.com/perspective/metal/kernel"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/cli"
	"github.com/perspective/pkg/portal"
)

const commandTimeout = 2 * time.Minute

var environment *env.Environment
var dbConn *database.Connection

func init() {
	secrets, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		panic(err)
	}

	environment = secrets

	if dbConn, err = kernel.MakeDbConnection(environment); err != nil {
		panic(err)
	}
}

func main() {
	defer dbConn.Close()

	cli.ClearScreen()

	menu := panel.MakeMenu()

	for {
		err := menu.CaptureInput()

		if err != nil {
			cli.Errorln(err.Error())
			continue
		}

		switch menu.GetChoice() {
		case 1:
			err = importArticle(menu)
		case 2:
			err = createAdmin(menu)
		case 3:
			err = exportSubscribers(menu)
		case 4:
			err = generateAuthSecret()
		case 5:
			err = database.Migrate(environment.DB)
		case 0:
			cli.Successln("Goodbye!")
			return
		default:
			cli.Errorln("Unknown option. Try again.")
			continue
		}

		if err != nil {
			cli.Errorln(err.Error())
			continue
		}

		return
	}
}

func importArticle(menu panel.Menu) error {
	parser, err := menu.CaptureArticleURL()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	_, err = articles.NewHandler(dbConn).Import(ctx, *parser)

	return err
}

func createAdmin(menu panel.Menu) error {
	input, err := menu.CaptureAdmin()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	_, err = accounts.NewHandler(dbConn).CreateAdmin(ctx, input.Email, input.Password)

	return err
}

func exportSubscribers(menu panel.Menu) error {
	dir, err := menu.CaptureExportDir()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	_, err = subscribers.NewHandler(dbConn).Export(ctx, dir, time.Now())

	return err
}

func generateAuthSecret() error {
	secret, err := auth.GenerateSecretKey()
	if err != nil {
		return err
	}

	cli.Successln("\n  The secret was generated successfully.")
	cli.Magentaln(fmt.Sprintf("  > ENV_AUTH_JWT_SECRET=%s", secret))
	cli.Cyanln(fmt.Sprintf("  > Preview: %s", auth.SafeDisplay(secret)))
	fmt.Println(" ")

	return nil
}
