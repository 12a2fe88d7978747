package kernel

import (
	"context"
	"fmt"
	"log/slog"
	baseHttp "net/http"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/llogs"
	"github.com/perspective/pkg/middleware"
	"github.com/perspective/pkg/portal"
	"github.com/perspective/pkg/scheduler"
	"github.com/perspective/pkg/session"
	"github.com/perspective/pkg/sitemap"
)

const (
	sitemapJobTimeout = time.Minute
	rateLimitWindow   = time.Minute
	rateLimitRequests = 10
)

type App struct {
	router    *Router
	sentry    *portal.Sentry
	logs      llogs.Driver
	tracer    *portal.TracerProvider
	validator *portal.Validator
	env       *env.Environment
	db        *database.Connection
	hub       *changefeed.Hub
	sitemap   *scheduler.Scheduler
}

func MakeApp(env *env.Environment, validator *portal.Validator) (*App, error) {
	logs, err := MakeLogs(env)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > %w", err)
	}

	sentry, err := MakeSentry(env)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > %w", err)
	}

	tracer, err := portal.NewTracerProvider(env)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not start tracing: %w", err)
	}

	db, err := MakeDbConnection(env)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > %w", err)
	}

	app, err := NewApp(env, db)
	if err != nil {
		return nil, err
	}

	app.logs = logs
	app.sentry = sentry
	app.tracer = tracer
	app.validator = validator

	return app, nil
}

// NewApp wires the change feed, sessions and sitemap around an open connection.
func NewApp(env *env.Environment, db *database.Connection) (*App, error) {
	hub := changefeed.NewHub()

	if err := db.Watch(hub); err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not watch the database: %w", err)
	}

	tokens, err := auth.MakeJWTHandler([]byte(env.Auth.JWTSecret), env.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not create jwt handler: %w", err)
	}

	articles := repository.Articles{DB: db}
	roles := repository.UserRoles{DB: db}
	sessions := session.NewStore(repository.Users{DB: db}, tokens, hub)
	cache := sitemap.NewCache(articles, env.Seo.GetBaseURL())

	rebuild, err := scheduler.New(
		"sitemap",
		env.Seo.SitemapSchedule,
		func(ctx context.Context) error {
			_, err := cache.Refresh(ctx)

			return err
		},
		scheduler.WithLogger(slog.Default()),
		scheduler.WithJobTimeout(sitemapJobTimeout),
		scheduler.WithRunOnStart(),
	)

	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not schedule the sitemap: %w", err)
	}

	router := Router{
		Env:      env,
		Db:       db,
		Hub:      hub,
		Mux:      baseHttp.NewServeMux(),
		Sessions: sessions,
		Sitemap:  cache,
		Pipeline: middleware.Pipeline{
			Env: env,
			Session: middleware.SessionMiddleware{
				Store: sessions,
				Hub:   hub,
				Roles: roles,
			},
			RateLimit: middleware.MakeRateLimitMiddleware(rateLimitWindow, rateLimitRequests),
		},
	}

	app := App{
		env:     env,
		db:      db,
		hub:     hub,
		sitemap: rebuild,
	}

	app.SetRouter(router)

	return &app, nil
}

func (a *App) Boot() {
	if a == nil || a.router == nil {
		panic("bootstrapping error > Invalid setup")
	}

	router := *a.router

	router.KeepAlive()
	router.KeepAliveDB()
	router.Metrics()
	router.Auth()
	router.Articles()
	router.Comments()
	router.Newsletter()
	router.Sitemap()
	router.Feed()
	router.Admin()
}

// Start runs the background work: sitemap invalidation and its scheduled rebuild.
func (a *App) Start(ctx context.Context) error {
	a.router.Sitemap.Watch(ctx, a.hub)

	if err := a.sitemap.Start(ctx); err != nil {
		return fmt.Errorf("could not start the sitemap scheduler: %w", err)
	}

	return nil
}

// Shutdown stops the background work and releases every resource, last opened first.
func (a *App) Shutdown() {
	a.sitemap.Stop()
	a.hub.Close()

	if err := a.tracer.Shutdown(); err != nil {
		slog.Error("tracer shutdown failed", "error", err)
	}

	a.CloseDB()
	a.FlushSentry()
	a.CloseLogs()
}
