package middleware

import (
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/endpoint"
)

type Pipeline struct {
	Env       *env.Environment
	Session   SessionMiddleware
	RateLimit RateLimitMiddleware
}

func (m Pipeline) Chain(h endpoint.ApiHandler, handlers ...endpoint.Middleware) endpoint.ApiHandler {
	for i := len(handlers) - 1; i >= 0; i-- {
		h = handlers[i](h)
	}

	return h
}

// Public attaches the (possibly anonymous) auth context.
func (m Pipeline) Public(h endpoint.ApiHandler) endpoint.ApiHandler {
	return m.Chain(h, RequestID, Trace, m.Session.Handle)
}

// Authenticated requires a signed-in session.
func (m Pipeline) Authenticated(h endpoint.ApiHandler) endpoint.ApiHandler {
	return m.Chain(h, RequestID, Trace, m.Session.Handle, RequireSession)
}

// Admin requires a signed-in session whose role is admin.
func (m Pipeline) Admin(h endpoint.ApiHandler) endpoint.ApiHandler {
	return m.Chain(h, RequestID, Trace, m.Session.Handle, RequireAdmin)
}

// Limited is Public plus the per client rate limit.
func (m Pipeline) Limited(h endpoint.ApiHandler) endpoint.ApiHandler {
	return m.Chain(h, RequestID, Trace, m.RateLimit.Handle, m.Session.Handle)
}
