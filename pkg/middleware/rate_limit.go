package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/limiter"
	"github.com/perspective/pkg/middleware/mwguards"
	"github.com/perspective/pkg/portal"
)

// RateLimitMiddleware caps requests per client IP and route inside a window,
// e.g. newsletter signups and sign-in attempts.
type RateLimitMiddleware struct {
	limiter *limiter.MemoryLimiter
}

func MakeRateLimitMiddleware(window time.Duration, maxRequests int) RateLimitMiddleware {
	return RateLimitMiddleware{
		limiter: limiter.NewMemoryLimiter(window, maxRequests),
	}
}

func (m RateLimitMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		if m.limiter == nil {
			return endpoint.InternalError("rate limit middleware missing limiter")
		}

		key := strings.Join([]string{portal.ParseClientIP(r), r.Method, r.URL.Path}, "|")

		if m.limiter.TooMany(key) {
			return mwguards.RateLimitedError("Too many requests, please try again later", "rate limited: "+key)
		}

		m.limiter.Fail(key)

		return next(w, r)
	}
}
