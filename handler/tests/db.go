package handlertests

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
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/middleware"
	"github.com/perspective/pkg/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Fixture is an in-memory database wired to a change feed and a session store.
type Fixture struct {
	DB       *database.Connection
	Hub      *changefeed.Hub
	Sessions *session.Store
	Session  middleware.SessionMiddleware
}

// NewTestDB opens a private sqlite database, migrates the schema and starts
// publishing its changes on a fresh hub.
func NewTestDB(t *testing.T) *Fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(database.GetSchemaModels()...); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	hub := changefeed.NewHub()
	t.Cleanup(hub.Close)

	conn := database.NewConnectionFromGorm(db)
	if err := conn.Watch(hub); err != nil {
		t.Fatalf("watch connection: %v", err)
	}

	tokens, err := auth.MakeJWTHandler([]byte("handler-tests-secret-with-enough-bytes"), time.Hour)
	if err != nil {
		t.Fatalf("jwt handler: %v", err)
	}

	store := session.NewStore(repository.Users{DB: conn}, tokens, hub)

	return &Fixture{
		DB:       conn,
		Hub:      hub,
		Sessions: store,
		Session: middleware.SessionMiddleware{
			Store: store,
			Hub:   hub,
			Roles: repository.UserRoles{DB: conn},
		},
	}
}

// SignUp registers email and returns its session. Admins get their role promoted.
func (f *Fixture) SignUp(t *testing.T, email string, admin bool) *session.Session {
	t.Helper()

	sess, err := f.Sessions.SignUp(t.Context(), email, "correct-horse-battery")
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}

	if admin {
		if _, err := (repository.UserRoles{DB: f.DB}).UpdateRole(t.Context(), "fixture", sess.UserID, database.RoleAdmin); err != nil {
			t.Fatalf("promote %s: %v", email, err)
		}
	}

	return sess
}

// Article stores an article, published or not.
func (f *Fixture) Article(t *testing.T, title, category string, published bool) database.Article {
	t.Helper()

	article, err := repository.Articles{DB: f.DB}.Create(t.Context(), database.ArticleAttrs{
		Title:     title,
		Category:  category,
		Excerpt:   title + " excerpt",
		Content:   "# " + title,
		Published: published,
	})

	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	return *article
}

// Serve runs h behind the session middleware and turns an api error into its JSON response.
func (f *Fixture) Serve(h endpoint.ApiHandler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()

	endpoint.NewApiHandler(f.Session.Handle(h)).ServeHTTP(rec, req)

	return rec
}

// Request builds a request with an optional JSON body and bearer token.
func Request(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Decode reads the JSON body of rec into T.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T

	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}

	return out
}
