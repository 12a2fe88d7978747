package main

import (
	"context"
	"log/slog"
	baseHttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perspective/metal/kernel"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/portal"
)

var app *kernel.App

func init() {
	validate := portal.GetDefaultValidator()

	secrets, err := kernel.Ignite("./.env", validate)
	if err != nil {
		panic(err)
	}

	app, err = kernel.MakeApp(secrets, validate)
	if err != nil {
		panic(err)
	}
}

func main() {
	defer app.Shutdown()

	app.Boot()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		slog.Error("Error starting background jobs", "error", err)
		return
	}

	addr := app.GetEnv().Network.GetHostURL()

	// No write timeout: article and comment streams stay open for as long as the client listens.
	server := &baseHttp.Server{
		Addr:              addr,
		Handler:           app.GetHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := endpoint.RunServer(addr, server); err != nil {
		slog.Error("Error starting server", "error", err)
	}
}
