package handler

import (
	"errors"
	"net/http"

	"github.com/perspective/database/repository"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/middleware"
	"github.com/perspective/pkg/portal"
	"github.com/perspective/pkg/session"
)

type AuthHandler struct {
	Sessions *session.Store
	Roles    session.RoleLookup
}

func NewAuthHandler(sessions *session.Store, roles session.RoleLookup) AuthHandler {
	return AuthHandler{
		Sessions: sessions,
		Roles:    roles,
	}
}

func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.CredentialsRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the credentials", err)
	}

	if errs := h.Sessions.Validate(req.Email, req.Password); errs != nil {
		return endpoint.UnprocessableEntity("The given credentials are invalid", errs)
	}

	sess, err := h.Sessions.SignUp(r.Context(), req.Email, req.Password)

	if errors.Is(err, repository.ErrEmailTaken) {
		return endpoint.Conflict("This email is already registered", err)
	}

	if err != nil {
		return endpoint.LogInternalError("could not create the account", err)
	}

	return h.respondWithSession(w, r, http.StatusCreated, sess)
}

func (h AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.CredentialsRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the credentials", err)
	}

	sess, err := h.Sessions.SignIn(r.Context(), portal.ParseClientIP(r), req.Email, req.Password)

	switch {
	case errors.Is(err, session.ErrTooManyAttempts):
		return endpoint.TooManyRequests("Too many failed sign-in attempts, try again later", err)
	case errors.Is(err, session.ErrInvalidCredentials):
		return endpoint.Unauthorised("Invalid email or password")
	case err != nil:
		return endpoint.LogInternalError("could not sign in", err)
	}

	return h.respondWithSession(w, r, http.StatusOK, sess)
}

// Refresh rotates the caller's bearer token.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	sess, err := h.Sessions.Refresh(portal.BearerToken(r))

	if errors.Is(err, session.ErrInvalidToken) {
		return endpoint.Unauthorised("The session token is invalid or expired")
	}

	if err != nil {
		return endpoint.LogInternalError("could not refresh the session", err)
	}

	return h.respondWithSession(w, r, http.StatusOK, sess)
}

// SignOut revokes the caller's token. Anonymous callers get the signed-out snapshot.
func (h AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		return respond(w, r, http.StatusOK, payload.MapSnapshot(session.Snapshot{}))
	}

	if err := authCtx.SignOut(r.Context()); err != nil {
		return endpoint.LogInternalError("could not sign out", err)
	}

	return respond(w, r, http.StatusOK, payload.MapSnapshot(authCtx.Snapshot()))
}

// Session reports the caller's auth snapshot.
func (h AuthHandler) Session(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	return respond(w, r, http.StatusOK, payload.MapSnapshot(middleware.SnapshotFrom(r.Context())))
}

func (h AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, sess *session.Session) *endpoint.ApiError {
	isAdmin := false

	if h.Roles != nil {
		admin, err := h.Roles.IsAdmin(r.Context(), sess.UserID)
		if err != nil {
			return endpoint.LogInternalError("could not read the user role", err)
		}

		isAdmin = admin
	}

	return respond(w, r, status, payload.MapSession(*sess, isAdmin))
}
