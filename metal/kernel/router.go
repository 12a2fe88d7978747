package kernel

import (
	baseHttp "net/http"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/handler"
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/feeds"
	"github.com/perspective/pkg/middleware"
	"github.com/perspective/pkg/session"
	"github.com/perspective/pkg/sitemap"
)

type Router struct {
	Env      *env.Environment
	Mux      *baseHttp.ServeMux
	Pipeline middleware.Pipeline
	Db       *database.Connection
	Hub      *changefeed.Hub
	Sessions *session.Store
	Sitemap  *sitemap.Cache
}

func (r *Router) PublicPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(r.Pipeline.Public(apiHandler))
}

func (r *Router) AuthenticatedPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(r.Pipeline.Authenticated(apiHandler))
}

func (r *Router) AdminPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(r.Pipeline.Admin(apiHandler))
}

func (r *Router) LimitedPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(r.Pipeline.Limited(apiHandler))
}

func (r *Router) Articles() {
	abstract := handler.NewArticlesHandler(repository.Articles{DB: r.Db}, r.Hub)

	r.Mux.HandleFunc("GET /articles", r.PublicPipelineFor(abstract.Index))
	r.Mux.HandleFunc("GET /articles/stream", r.PublicPipelineFor(abstract.Stream))
	r.Mux.HandleFunc("GET /articles/featured", r.PublicPipelineFor(abstract.Featured))
	r.Mux.HandleFunc("GET /articles/{id}", r.PublicPipelineFor(abstract.Show))
	r.Mux.HandleFunc("GET /articles/{id}/related", r.PublicPipelineFor(abstract.Related))
	r.Mux.HandleFunc("GET /search", r.PublicPipelineFor(abstract.Search))
}

func (r *Router) Comments() {
	abstract := handler.NewCommentsHandler(repository.Articles{DB: r.Db}, repository.Comments{DB: r.Db}, r.Hub)

	r.Mux.HandleFunc("GET /articles/{id}/comments", r.PublicPipelineFor(abstract.Index))
	r.Mux.HandleFunc("GET /articles/{id}/comments/stream", r.PublicPipelineFor(abstract.Stream))
	// Anonymous posts reach the handler so the comment view can report the login requirement.
	r.Mux.HandleFunc("POST /articles/{id}/comments", r.PublicPipelineFor(abstract.Store))
	r.Mux.HandleFunc("PUT /articles/{id}/comments/{comment}", r.AuthenticatedPipelineFor(abstract.Update))
	r.Mux.HandleFunc("DELETE /articles/{id}/comments/{comment}", r.AuthenticatedPipelineFor(abstract.Destroy))
}

func (r *Router) Auth() {
	abstract := handler.NewAuthHandler(r.Sessions, repository.UserRoles{DB: r.Db})

	r.Mux.HandleFunc("POST /auth/sign-up", r.LimitedPipelineFor(abstract.SignUp))
	r.Mux.HandleFunc("POST /auth/sign-in", r.LimitedPipelineFor(abstract.SignIn))
	r.Mux.HandleFunc("POST /auth/refresh", r.AuthenticatedPipelineFor(abstract.Refresh))
	r.Mux.HandleFunc("POST /auth/sign-out", r.PublicPipelineFor(abstract.SignOut))
	r.Mux.HandleFunc("GET /auth/session", r.PublicPipelineFor(abstract.Session))
}

func (r *Router) Newsletter() {
	abstract := handler.NewNewsletterHandler(repository.Subscribers{DB: r.Db})

	r.Mux.HandleFunc("POST /newsletter", r.LimitedPipelineFor(abstract.Subscribe))
}

func (r *Router) Sitemap() {
	abstract := handler.NewSitemapHandler(r.Sitemap, repository.Articles{DB: r.Db})

	r.Mux.HandleFunc("GET /sitemap.xml", endpoint.NewApiHandler(abstract.Handle))
}

func (r *Router) Feed() {
	site := feeds.Site{
		Title:   r.Env.Seo.SiteTitle,
		BaseURL: r.Env.Seo.GetBaseURL(),
	}

	abstract := handler.NewFeedHandler(repository.Articles{DB: r.Db}, site)

	r.Mux.HandleFunc("GET /feed.xml", endpoint.NewApiHandler(abstract.Handle))
}

func (r *Router) Admin() {
	articles := repository.Articles{DB: r.Db}
	subscribers := repository.Subscribers{DB: r.Db}
	roles := repository.UserRoles{DB: r.Db}

	adminArticles := handler.NewAdminArticlesHandler(articles)
	r.Mux.HandleFunc("GET /admin/articles", r.AdminPipelineFor(adminArticles.Index))
	r.Mux.HandleFunc("POST /admin/articles", r.AdminPipelineFor(adminArticles.Store))
	r.Mux.HandleFunc("PUT /admin/articles/featured", r.AdminPipelineFor(adminArticles.Featured))
	r.Mux.HandleFunc("PUT /admin/articles/{id}", r.AdminPipelineFor(adminArticles.Update))
	r.Mux.HandleFunc("DELETE /admin/articles/{id}", r.AdminPipelineFor(adminArticles.Destroy))
	r.Mux.HandleFunc("POST /admin/articles/{id}/publish", r.AdminPipelineFor(adminArticles.TogglePublished))

	adminUsers := handler.NewAdminUsersHandler(roles)
	r.Mux.HandleFunc("GET /admin/users", r.AdminPipelineFor(adminUsers.Index))
	r.Mux.HandleFunc("PUT /admin/users/{id}/role", r.AdminPipelineFor(adminUsers.UpdateRole))

	adminSubscribers := handler.NewAdminSubscribersHandler(subscribers)
	r.Mux.HandleFunc("GET /admin/subscribers", r.AdminPipelineFor(adminSubscribers.Index))
	r.Mux.HandleFunc("GET /admin/subscribers/export", r.AdminPipelineFor(adminSubscribers.Export))
	r.Mux.HandleFunc("POST /admin/subscribers/{id}/toggle", r.AdminPipelineFor(adminSubscribers.Toggle))
	r.Mux.HandleFunc("DELETE /admin/subscribers/{id}", r.AdminPipelineFor(adminSubscribers.Destroy))

	dashboard := handler.NewDashboardHandler(articles, subscribers, roles)
	r.Mux.HandleFunc("GET /admin/dashboard", r.AdminPipelineFor(dashboard.Handle))
}

func (r *Router) KeepAlive() {
	abstract := handler.NewKeepAliveHandler(&r.Env.Ping)

	r.Mux.HandleFunc("GET /ping", endpoint.NewApiHandler(r.Pipeline.Chain(abstract.Handle, middleware.RequestID)))
}

func (r *Router) KeepAliveDB() {
	abstract := handler.NewKeepAliveDBHandler(&r.Env.Ping, r.Db)

	r.Mux.HandleFunc("GET /ping-db", endpoint.NewApiHandler(r.Pipeline.Chain(abstract.Handle, middleware.RequestID)))
}

func (r *Router) Metrics() {
	r.Mux.Handle("GET /metrics", handler.NewMetricsHandler())
}
