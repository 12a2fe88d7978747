package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/portal"
)

func TestSessionMiddlewareAttachesSnapshot(t *testing.T) {
	mw, store := newSessionMiddleware(t)
	sess := signUp(t, store, "ana@example.com")

	var userID string
	var fromContext any

	handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		userID = SnapshotFrom(r.Context()).UserID()
		fromContext = r.Context().Value(portal.AuthUserIDKey)

		return nil
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	if err := handler(httptest.NewRecorder(), req); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if userID != sess.UserID || fromContext != sess.UserID {
		t.Fatalf("expected %s in the request context, got %q %v", sess.UserID, userID, fromContext)
	}
}

func TestSessionMiddlewareAnonymous(t *testing.T) {
	mw, _ := newSessionMiddleware(t)

	var authenticated bool

	handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		_, ok := AuthContextFrom(r.Context())
		authenticated = !ok || SnapshotFrom(r.Context()).IsAuthenticated()

		return nil
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	if err := handler(httptest.NewRecorder(), req); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if authenticated {
		t.Fatalf("expected an attached anonymous context")
	}
}

func TestRequireSession(t *testing.T) {
	mw, store := newSessionMiddleware(t)
	sess := signUp(t, store, "ana@example.com")
	handler := mw.Handle(RequireSession(okHandler))

	if err := handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)); err == nil || err.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %#v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	if err := handler(httptest.NewRecorder(), req); err != nil {
		t.Fatalf("expected access, got %#v", err)
	}
}

func TestRequireSessionWithoutMiddleware(t *testing.T) {
	if err := RequireSession(okHandler)(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)); err == nil || err.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %#v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	mw, store := newSessionMiddleware(t, "user-admin@example.com")
	admin := signUp(t, store, "admin@example.com")
	reader := signUp(t, store, "reader@example.com")
	handler := mw.Handle(RequireAdmin(okHandler))

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"reader", reader.Token, http.StatusForbidden},
		{"admin", admin.Token, 0},
	}

	for _, c := range cases {
		req := httptest.NewRequest("GET", "/admin/articles", nil)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		err := handler(httptest.NewRecorder(), req)

		switch {
		case c.status == 0 && err != nil:
			t.Fatalf("%s: expected access, got %#v", c.name, err)
		case c.status != 0 && (err == nil || err.Status != c.status):
			t.Fatalf("%s: expected %d, got %#v", c.name, c.status, err)
		}
	}
}

func TestRequireAdminRejectsSignedOutToken(t *testing.T) {
	mw, store := newSessionMiddleware(t, "user-admin@example.com")
	admin := signUp(t, store, "admin@example.com")
	handler := mw.Handle(RequireAdmin(okHandler))

	if err := store.SignOut(admin.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/articles", nil)
	req.Header.Set("Authorization", "Bearer "+admin.Token)

	if err := handler(httptest.NewRecorder(), req); err == nil || err.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a revoked token, got %#v", err)
	}
}

func TestSessionMiddlewareWithoutStore(t *testing.T) {
	if err := (SessionMiddleware{}).Handle(okHandler)(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)); err == nil || err.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %#v", err)
	}
}
