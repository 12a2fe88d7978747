package middleware

import (
	"context"
	"net/http"

	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/middleware/mwguards"
	"github.com/perspective/pkg/portal"
	"github.com/perspective/pkg/session"
)

// SessionMiddleware gives every request its own auth context, built from the
// bearer token, and closes it when the handler returns.
type SessionMiddleware struct {
	Store *session.Store
	Hub   *changefeed.Hub
	Roles session.RoleLookup
}

func (m SessionMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		if m.Store == nil {
			return endpoint.InternalError("session middleware missing store")
		}

		provider := session.NewTokenProvider(m.Store, m.Hub, portal.BearerToken(r))
		authCtx := session.NewContext(provider, m.Roles)
		defer authCtx.Close()

		if err := authCtx.Init(r.Context()); err != nil {
			return endpoint.LogInternalError("could not resolve the session", err)
		}

		ctx := context.WithValue(r.Context(), portal.AuthContextKey, authCtx)

		if userID := authCtx.Snapshot().UserID(); userID != "" {
			ctx = context.WithValue(ctx, portal.AuthUserIDKey, userID)
		}

		return next(w, r.WithContext(ctx))
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		authCtx, ok := AuthContextFrom(r.Context())
		if !ok || !authCtx.Snapshot().IsAuthenticated() {
			return mwguards.UnauthenticatedError("You must be signed in", "missing session for "+r.URL.Path)
		}

		return next(w, r)
	}
}

// RequireAdmin rejects anonymous requests with 401 and non admins with 403.
// The role is read from the request's own snapshot.
func RequireAdmin(next endpoint.ApiHandler) endpoint.ApiHandler {
	return RequireSession(func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		authCtx, _ := AuthContextFrom(r.Context())
		snapshot := authCtx.Snapshot()

		if !snapshot.IsAdmin {
			return mwguards.ForbiddenError(
				"You do not have access to this area",
				"non admin request to "+r.URL.Path,
				map[string]any{"user_id": snapshot.UserID()},
			)
		}

		return next(w, r)
	})
}

func AuthContextFrom(ctx context.Context) (*session.Context, bool) {
	authCtx, ok := ctx.Value(portal.AuthContextKey).(*session.Context)

	return authCtx, ok && authCtx != nil
}

// SnapshotFrom returns the request's auth snapshot, or an anonymous one.
func SnapshotFrom(ctx context.Context) session.Snapshot {
	if authCtx, ok := AuthContextFrom(ctx); ok {
		return authCtx.Snapshot()
	}

	return session.Snapshot{}
}
