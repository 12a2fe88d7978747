package portal

const DatesLayout = "2006-01-02 15:04:05"

// ---- Middleware / HTTP

const AuthorizationHeader = "Authorization"
const RequestIDHeader = "X-Request-ID"
const ForwardedForHeader = "X-Forwarded-For"

// ---- Middleware / Context

type contextKey string

const RequestIDKey contextKey = "request.id"
const AuthUserIDKey contextKey = "auth.user_id"
const AuthContextKey contextKey = "auth.context"
