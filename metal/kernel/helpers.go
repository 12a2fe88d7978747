package kernel

import (
	baseHttp "net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/perspective/database"
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/endpoint"
)

func (a *App) SetRouter(router Router) {
	a.router = &router
}

func (a *App) CloseLogs() {
	if a.logs == nil {
		return
	}

	a.logs.Close()
}

func (a *App) CloseDB() {
	if a.db == nil {
		return
	}

	a.db.Close()
}

func (a *App) FlushSentry() {
	if a.sentry == nil {
		return
	}

	sentry.Flush(2 * time.Second)
}

func (a *App) IsLocal() bool {
	return a.env.App.IsLocal()
}

func (a *App) IsProduction() bool {
	return a.env.App.IsProduction()
}

func (a *App) GetEnv() *env.Environment {
	return a.env
}

func (a *App) GetDB() *database.Connection {
	return a.db
}

func (a *App) GetMux() *baseHttp.ServeMux {
	if a.router == nil {
		return nil
	}

	return a.router.Mux
}

// GetHandler is the server's root handler: the mux behind CORS (outside production) and Sentry.
func (a *App) GetHandler() baseHttp.Handler {
	cfg := endpoint.ServerHandlerConfig{
		Mux:          a.GetMux(),
		IsProduction: a.IsProduction(),
		DevHost:      a.env.Network.DevHost,
	}

	if a.sentry != nil && a.sentry.Handler != nil {
		cfg.Wrap = a.sentry.Handler.Handle
	}

	return endpoint.NewServerHandler(cfg)
}
