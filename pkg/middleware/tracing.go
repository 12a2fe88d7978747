package middleware

import (
	"net/http"

	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/portal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/perspective/pkg/middleware"

// Trace opens a server span per request. With tracing disabled the global
// provider is a no-op and the span costs nothing.
func Trace(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		name := r.Pattern
		if name == "" {
			name = r.Method + " " + r.URL.Path
		}

		ctx, span := otel.Tracer(tracerName).Start(ctx, name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		if id, ok := r.Context().Value(portal.RequestIDKey).(string); ok {
			span.SetAttributes(attribute.String("request.id", id))
		}

		apiErr := next(w, r.WithContext(ctx))

		if apiErr != nil {
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.Status))

			if apiErr.Status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, apiErr.Message)
			}
		}

		return apiErr
	}
}
