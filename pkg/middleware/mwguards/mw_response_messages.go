package mwguards

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/perspective/pkg/endpoint"
)

func normaliseData(data ...map[string]any) map[string]any {
	if len(data) == 0 {
		return map[string]any{}
	}

	result := make(map[string]any, len(data))
	for _, d := range data {
		for k, v := range d {
			result[k] = v
		}
	}

	return result
}

func normaliseMessages(message, logMessage string) (string, string) {
	message = strings.TrimSpace(message)

	if strings.TrimSpace(logMessage) == "" {
		logMessage = message
	}

	return message, logMessage
}

func UnauthenticatedError(message, logMessage string, data ...map[string]any) *endpoint.ApiError {
	message, logMessage = normaliseMessages(message, logMessage)

	d := normaliseData(data...)
	slog.Info(logMessage, "data", d)

	return &endpoint.ApiError{
		Message: message,
		Status:  http.StatusUnauthorized,
		Data:    d,
	}
}

func ForbiddenError(message, logMessage string, data ...map[string]any) *endpoint.ApiError {
	message, logMessage = normaliseMessages(message, logMessage)

	d := normaliseData(data...)
	slog.Warn(logMessage, "data", d)

	return &endpoint.ApiError{
		Message: message,
		Status:  http.StatusForbidden,
		Data:    d,
	}
}

func RateLimitedError(message, logMessage string, data ...map[string]any) *endpoint.ApiError {
	message, logMessage = normaliseMessages(message, logMessage)

	d := normaliseData(data...)
	slog.Warn(logMessage, "data", d)

	return &endpoint.ApiError{
		Message: message,
		Status:  http.StatusTooManyRequests,
		Data:    d,
	}
}
