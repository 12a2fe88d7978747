package middleware

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/session"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]database.User
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[repository.NormaliseEmail(email)]
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (m *memoryUsers) Create(_ context.Context, attrs database.UserAttrs) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := repository.NormaliseEmail(attrs.Email)
	user := database.User{ID: "user-" + email, Email: email, PasswordHash: attrs.PasswordHash}
	m.users[email] = user

	return &user, nil
}

type staticRoles map[string]bool

func (s staticRoles) IsAdmin(_ context.Context, userID string) (bool, error) {
	return s[userID], nil
}

func newSessionMiddleware(t *testing.T, admins ...string) (SessionMiddleware, *session.Store) {
	t.Helper()

	tokens, err := auth.MakeJWTHandler([]byte("a-test-secret-with-enough-bytes"), time.Hour)
	if err != nil {
		t.Fatalf("jwt handler: %v", err)
	}

	hub := changefeed.NewHub()
	t.Cleanup(hub.Close)

	roles := staticRoles{}
	for _, id := range admins {
		roles[id] = true
	}

	store := session.NewStore(&memoryUsers{users: map[string]database.User{}}, tokens, hub)

	return SessionMiddleware{Store: store, Hub: hub, Roles: roles}, store
}

func signUp(t *testing.T, store *session.Store, email string) *session.Session {
	t.Helper()

	sess, err := store.SignUp(t.Context(), email, "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	return sess
}

func okHandler(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	w.WriteHeader(http.StatusNoContent)

	return nil
}
