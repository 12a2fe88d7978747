package kernel

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/metal/env"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testEnvironment() *env.Environment {
	return &env.Environment{
		App:  env.AppEnvironment{Name: "perspective", URL: "https://perspective.example.com", Type: "local"},
		Ping: env.PingEnvironment{Username: "1234567890abcdef", Password: "abcdef1234567890"},
		Auth: env.AuthEnvironment{JWTSecret: "12345678901234567890123456789012", TokenTTL: time.Hour},
		Seo: env.SeoEnvironment{
			BaseURL:         "https://perspective.example.com",
			SiteTitle:       "Perspective",
			SitemapSchedule: "@hourly",
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app, err := NewApp(testEnvironment(), database.NewConnectionFromGorm(db))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	t.Cleanup(app.Shutdown)

	app.Boot()

	return app
}

func signUp(t *testing.T, app *App, email string, admin bool) string {
	t.Helper()

	sess, err := app.router.Sessions.SignUp(t.Context(), email, "correct-horse-battery")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if admin {
		if _, err := (repository.UserRoles{DB: app.db}).UpdateRole(t.Context(), "kernel-test", sess.UserID, database.RoleAdmin); err != nil {
			t.Fatalf("promote: %v", err)
		}
	}

	return sess.Token
}

func serve(app *App, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.GetHandler().ServeHTTP(rec, req)

	return rec
}

func TestAdminRoutesRequireAnAdminSession(t *testing.T) {
	app := newTestApp(t)
	member := signUp(t, app, "member@example.com", false)
	admin := signUp(t, app, "admin@example.com", true)

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/admin/articles"},
		{http.MethodGet, "/admin/users"},
		{http.MethodGet, "/admin/subscribers"},
		{http.MethodGet, "/admin/dashboard"},
	}

	for _, route := range routes {
		if rec := serve(app, route.method, route.target, "", nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s anonymous: %d", route.method, route.target, rec.Code)
		}

		if rec := serve(app, route.method, route.target, member, nil); rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s member: %d", route.method, route.target, rec.Code)
		}

		if rec := serve(app, route.method, route.target, admin, nil); rec.Code != http.StatusOK {
			t.Fatalf("%s %s admin: %d %s", route.method, route.target, rec.Code, rec.Body.String())
		}
	}
}

func TestPublicRoutes(t *testing.T) {
	app := newTestApp(t)

	created, err := repository.Articles{DB: app.db}.Create(t.Context(), database.ArticleAttrs{Title: "Lisbon", Category: "travel", Published: true})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	checks := []struct {
		target string
		status int
	}{
		{"/articles", http.StatusOK},
		{"/articles/featured", http.StatusOK},
		{"/articles/" + created.ID, http.StatusOK},
		{"/articles/missing", http.StatusNotFound},
		{"/articles/" + created.ID + "/related", http.StatusOK},
		{"/articles/" + created.ID + "/comments", http.StatusOK},
		{"/search?q=lis", http.StatusOK},
		{"/auth/session", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
		{"/feed.xml", http.StatusOK},
		{"/metrics", http.StatusOK},
	}

	for _, check := range checks {
		if rec := serve(app, http.MethodGet, check.target, "", nil); rec.Code != check.status {
			t.Fatalf("GET %s: expected %d, got %d", check.target, check.status, rec.Code)
		}
	}

	rec := serve(app, http.MethodPost, "/articles/"+created.ID+"/comments", "", map[string]string{"content": "hi"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous comment: %d", rec.Code)
	}

	if rec := serve(app, http.MethodGet, "/articles", "", nil); rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestKeepAliveRoutes(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/ping", "/ping-db"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		app.GetHandler().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without credentials: %d", target, rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, target, nil)
		req.SetBasicAuth("1234567890abcdef", "abcdef1234567890")
		rec = httptest.NewRecorder()
		app.GetHandler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s with credentials: %d", target, rec.Code)
		}
	}
}

func TestNewsletterRouteIsRateLimited(t *testing.T) {
	app := newTestApp(t)

	var last int
	for i := 0; i <= rateLimitRequests; i++ {
		last = serve(app, http.MethodPost, "/newsletter", "", map[string]string{"email": "reader@example.com"}).Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after %d requests, got %d", rateLimitRequests, last)
	}
}

func TestStartRefreshesTheSitemap(t *testing.T) {
	app := newTestApp(t)

	if err := app.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}

	body, err := app.router.Sitemap.Get(t.Context())
	if err != nil || len(body) == 0 {
		t.Fatalf("sitemap not built: %v", err)
	}
}
