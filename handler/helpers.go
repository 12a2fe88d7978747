package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/live"
	"github.com/perspective/pkg/middleware"
	"github.com/perspective/pkg/portal"
)

func pathID(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}

	return value
}

// validate runs the shared validator and turns field errors into a 422.
func validate(target any) *endpoint.ApiError {
	if errs := portal.GetDefaultValidator().Inspect(target); errs != nil {
		return endpoint.UnprocessableEntity("The given data is invalid", errs)
	}

	return nil
}

// authState returns the request's auth context, or nil for requests outside the session middleware.
func authState(r *http.Request) live.AuthState {
	if authCtx, ok := middleware.AuthContextFrom(r.Context()); ok {
		return authCtx
	}

	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, payload any) *endpoint.ApiError {
	if err := endpoint.NewNoCacheResponse(w, r).RespondWith(status, payload); err != nil {
		return endpoint.LogInternalError("could not encode the response", err)
	}

	return nil
}
