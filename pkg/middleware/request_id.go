package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/portal"
)

const maxRequestIDLength = 64

// RequestID keeps the caller's X-Request-ID or assigns one, and echoes it back.
func RequestID(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		id := strings.TrimSpace(r.Header.Get(portal.RequestIDHeader))

		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(portal.RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), portal.RequestIDKey, id)

		return next(w, r.WithContext(ctx))
	}
}
