package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/perspective/pkg/portal"
)

type ScopeApiError struct {
	scope   *sentry.Scope
	request *http.Request
	apiErr  *ApiError
}

func NewScopeApiError(scope *sentry.Scope, r *http.Request, apiErr *ApiError) *ScopeApiError {
	return &ScopeApiError{scope: scope, request: r, apiErr: apiErr}
}

func (s *ScopeApiError) RequestID() string {
	if s == nil || s.request == nil {
		return ""
	}

	if v, ok := s.request.Context().Value(portal.RequestIDKey).(string); ok {
		if id := strings.TrimSpace(v); id != "" {
			return id
		}
	}

	return s.headerValue(portal.RequestIDHeader)
}

func (s *ScopeApiError) Enrich() {
	if s == nil || s.scope == nil || s.request == nil || s.apiErr == nil {
		return
	}

	s.scope.SetRequest(s.request)
	s.scope.SetLevel(getSentryLevel(s.apiErr.Status))
	s.scope.SetTag("http.method", s.request.Method)
	s.scope.SetTag("http.route", s.request.URL.Path)
	s.scope.SetTag("http.status_code", strconv.Itoa(s.apiErr.Status))
	s.scope.SetExtra("api_error_status_text", http.StatusText(s.apiErr.Status))
	s.scope.SetExtra("api_error_message", s.apiErr.Message)

	if requestID := s.RequestID(); requestID != "" {
		s.scope.SetTag("http.request_id", requestID)
		s.scope.SetExtra("http_request_id", requestID)
	}

	if s.apiErr.Data != nil {
		s.scope.SetExtra("api_error_data", s.apiErr.Data)
	}

	if s.apiErr.Err != nil {
		s.scope.SetExtra("api_error_cause", s.apiErr.Err.Error())
		s.scope.SetTag("api.error.cause_type", fmt.Sprintf("%T", s.apiErr.Err))

		s.scope.SetExtra("api_error_cause_chain", s.buildErrorChain(s.apiErr.Err))
	}

	if userID := s.userID(); userID != "" {
		s.scope.SetUser(sentry.User{ID: userID})
	}

	if clientIP := strings.TrimSpace(portal.ParseClientIP(s.request)); clientIP != "" {
		s.scope.SetExtra("http_client_ip", clientIP)
	}
}

func (s *ScopeApiError) userID() string {
	if s == nil || s.request == nil {
		return ""
	}

	if v, ok := s.request.Context().Value(portal.AuthUserIDKey).(string); ok {
		return strings.TrimSpace(v)
	}

	return ""
}

func (s *ScopeApiError) headerValue(key string) string {
	if s == nil || s.request == nil {
		return ""
	}

	return strings.TrimSpace(s.request.Header.Get(key))
}

func (s *ScopeApiError) buildErrorChain(err error) []string {
	chain := make([]string, 0, 4)

	for current := err; current != nil; current = errors.Unwrap(current) {
		chain = append(chain, current.Error())
	}

	return chain
}

func getSentryLevel(status int) sentry.Level {
	// 401, 403, 404 and 429 are expected client outcomes; they are tracked without alerting.
	switch {
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusNotFound,
		status == http.StatusTooManyRequests:
		return sentry.LevelInfo
	case status >= 400 && status < 500:
		return sentry.LevelWarning
	default:
		return sentry.LevelError
	}
}
