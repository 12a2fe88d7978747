package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/handler/payload"
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/portal"
)

// KeepAliveHandler answers the basic-auth protected ping endpoints.
// With a connection attached it also pings the database.
type KeepAliveHandler struct {
	env *env.PingEnvironment
	db  *database.Connection
}

func NewKeepAliveHandler(e *env.PingEnvironment) KeepAliveHandler {
	return KeepAliveHandler{env: e}
}

func NewKeepAliveDBHandler(e *env.PingEnvironment, db *database.Connection) KeepAliveHandler {
	return KeepAliveHandler{env: e, db: db}
}

func (h KeepAliveHandler) Handle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	user, pass, ok := r.BasicAuth()

	if !ok || h.env.HasInvalidCreds(user, pass) {
		return endpoint.LogUnauthorisedError(
			"invalid credentials",
			fmt.Errorf("invalid credentials"),
		)
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			return endpoint.LogInternalError("database ping failed", err)
		}
	}

	data := payload.KeepAliveResponse{
		Message:  "pong",
		DateTime: time.Now().UTC().Format(portal.DatesLayout),
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.LogInternalError("could not encode keep-alive response", err)
	}

	return nil
}
